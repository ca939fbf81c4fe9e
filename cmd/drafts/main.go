// Command drafts generates one social-media draft from the archive and
// exits. Intended to be invoked by an external cron.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"mailmuse/internal/config"
	"mailmuse/internal/database"
	"mailmuse/internal/digest"
	"mailmuse/internal/models"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	category := flag.String("category", models.CategoryDailyDigest,
		"draft category: "+strings.Join(models.DraftCategories, ", "))
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	generator := digest.New(db, cfg.Digest, nil)

	draft, err := generator.Generate(*category)
	if err != nil {
		logrus.Errorf("Draft generation failed: %v", err)
		os.Exit(1)
	}

	logrus.WithFields(logrus.Fields{
		"draft_id": draft.ID,
		"category": draft.Category,
	}).Info("Draft queued for review")
}
