// Command ingest runs one ingestion batch and exits. Intended to be
// invoked by an external cron; a non-zero exit reports a failed run to
// the scheduler.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"mailmuse/internal/config"
	"mailmuse/internal/database"
	"mailmuse/internal/fetcher"
	"mailmuse/internal/ingest"
	"mailmuse/internal/normalizer"
	"mailmuse/internal/sanitizer"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	var mailFetcher fetcher.MessageFetcher
	if cfg.Gmail.UseIMAP {
		mailFetcher, err = fetcher.NewIMAPFetcher(&cfg.Gmail)
	} else {
		mailFetcher, err = fetcher.NewGmailFetcher(ctx, &cfg.Gmail)
	}
	if err != nil {
		logrus.Fatalf("Failed to create mail fetcher: %v", err)
	}
	defer mailFetcher.Close()

	var marker *ingest.MarkerStore
	if cfg.Ingest.UseMarkerFile {
		// Marker mode must never outlive a reachable store: verify
		// the database first so a dead connection fails the batch
		// instead of silently diverging.
		if err := database.Ping(db); err != nil {
			logrus.Fatalf("Marker file enabled but database is unreachable: %v", err)
		}
		marker = ingest.NewMarkerStore(cfg.Ingest.MarkerFilePath)
	}

	norm := normalizer.New(sanitizer.New())
	service := ingest.New(db, mailFetcher, norm, marker, cfg.Ingest, nil)

	report, err := service.Run(ctx)
	if err != nil {
		logrus.Errorf("Ingestion failed: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Ingestion complete. Created: %d, Skipped (existing): %d",
		report.Created, report.Duplicates+report.SkippedLocal)
}
