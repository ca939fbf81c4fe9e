// Command backfill pages backwards through the configured label to
// pull older messages into the archive. It stops after a page that is
// entirely duplicates, or after the batch cap.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mailmuse/internal/config"
	"mailmuse/internal/database"
	"mailmuse/internal/fetcher"
	"mailmuse/internal/normalizer"
	"mailmuse/internal/sanitizer"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	maxBatches := flag.Int("max-batches", 10, "maximum number of pages to fetch")
	batchSize := flag.Int64("batch-size", 100, "messages per page")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}
	if cfg.Gmail.UseIMAP {
		logrus.Fatal("Backfill requires the Gmail API fetch path")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	gmailFetcher, err := fetcher.NewGmailFetcher(ctx, &cfg.Gmail)
	if err != nil {
		logrus.Fatalf("Failed to create Gmail fetcher: %v", err)
	}
	defer gmailFetcher.Close()

	norm := normalizer.New(sanitizer.New())

	created, skipped := 0, 0
	pageToken := ""
	for batch := 1; batch <= *maxBatches; batch++ {
		ids, next, err := gmailFetcher.ListPage(ctx, pageToken, *batchSize)
		if err != nil {
			logrus.Errorf("Failed to list page %d: %v", batch, err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			logrus.Info("Label exhausted")
			break
		}

		pageCreated := 0
		for _, id := range ids {
			raw, err := gmailFetcher.GetMessage(ctx, id)
			if err != nil {
				logrus.Warnf("Failed to fetch message %s: %v", id, err)
				continue
			}

			email, err := norm.Normalize(raw)
			if err != nil {
				logrus.Warnf("Failed to normalize message %s: %v", id, err)
				continue
			}

			if err := db.Create(&email).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					skipped++
					continue
				}
				logrus.Errorf("Failed to store message %s: %v", id, err)
				os.Exit(1)
			}
			created++
			pageCreated++
		}

		logrus.Infof("Batch %d: %d created, %d skipped so far", batch, created, skipped)

		// An all-duplicate page means the backfill has caught up with
		// what previous runs already stored.
		if pageCreated == 0 {
			logrus.Info("Reached already-ingested messages, stopping")
			break
		}
		if next == "" {
			logrus.Info("No more pages")
			break
		}
		pageToken = next
	}

	logrus.Infof("Backfill complete. Created: %d, Skipped (existing): %d", created, skipped)
}
