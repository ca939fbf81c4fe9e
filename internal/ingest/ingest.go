package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mailmuse/internal/config"
	"mailmuse/internal/fetcher"
	"mailmuse/internal/metrics"
	"mailmuse/internal/models"
	"mailmuse/internal/normalizer"
)

// Report summarizes one ingestion run
type Report struct {
	Listed       int
	Fetched      int
	Created      int
	Duplicates   int
	SkippedLocal int
}

// Service runs the ingestion flow: list message ids, filter through the
// de-duplication gate, fetch and normalize the remainder, and insert.
//
// De-duplication is constraint-first: every candidate is inserted and a
// unique-constraint violation on gmail_id means "already stored". The
// marker file, when enabled, only short-circuits fetches; it is never
// trusted over the database.
type Service struct {
	db         *gorm.DB
	fetcher    fetcher.MessageFetcher
	normalizer *normalizer.Normalizer
	marker     *MarkerStore
	batchSize  int
	metrics    *metrics.Metrics
}

// New creates an ingestion service. marker may be nil when the marker
// file is disabled.
func New(db *gorm.DB, f fetcher.MessageFetcher, n *normalizer.Normalizer, marker *MarkerStore, cfg config.IngestConfig, m *metrics.Metrics) *Service {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Service{
		db:         db,
		fetcher:    f,
		normalizer: n,
		marker:     marker,
		batchSize:  batchSize,
		metrics:    m,
	}
}

// Run executes one ingestion batch. Any database insert failure other
// than a duplicate key aborts the run: with a marker file in play a
// partial write would let the local record diverge from the store.
func (s *Service) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.IngestRuns.Inc()
	}

	report, err := s.run(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IngestFailures.Inc()
		}
		return report, err
	}

	if s.metrics != nil {
		s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
		var total int64
		if err := s.db.Model(&models.Email{}).Count(&total).Error; err == nil {
			s.metrics.EmailsTotal.Set(float64(total))
		}
	}

	logrus.WithFields(logrus.Fields{
		"listed":      report.Listed,
		"fetched":     report.Fetched,
		"created":     report.Created,
		"duplicates":  report.Duplicates,
		"marker_hits": report.SkippedLocal,
		"duration":    time.Since(start).String(),
	}).Info("Ingestion run completed")

	return report, nil
}

func (s *Service) run(ctx context.Context) (Report, error) {
	var report Report

	seen := map[string]struct{}{}
	if s.marker != nil {
		loaded, err := s.marker.Load()
		if err != nil {
			return report, err
		}
		seen = loaded
	}

	ids, err := s.fetcher.ListMessageIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list messages: %w", err)
	}
	report.Listed = len(ids)

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if _, ok := seen[id]; ok {
			report.SkippedLocal++
			continue
		}

		raw, err := s.fetcher.GetMessage(ctx, id)
		if err != nil {
			logrus.Warnf("Failed to fetch message %s: %v", id, err)
			continue
		}
		report.Fetched++
		if s.metrics != nil {
			s.metrics.MessagesFetched.Inc()
		}

		email, err := s.normalizer.Normalize(raw)
		if err != nil {
			logrus.Warnf("Failed to normalize message %s: %v", id, err)
			continue
		}

		created, err := s.insert(email)
		if err != nil {
			return report, fmt.Errorf("failed to store message %s: %w", id, err)
		}

		if created {
			report.Created++
			if s.metrics != nil {
				s.metrics.EmailsCreated.Inc()
			}
		} else {
			report.Duplicates++
			if s.metrics != nil {
				s.metrics.DuplicatesSkipped.Inc()
			}
		}

		if s.marker != nil {
			if err := s.marker.Append(id); err != nil {
				logrus.Warnf("Failed to update marker file: %v", err)
			}
		}

		if report.Created > 0 && report.Created%s.batchSize == 0 {
			logrus.Infof("Ingestion progress: %d created, %d duplicates", report.Created, report.Duplicates)
		}
	}

	return report, nil
}

// insert attempts to store the email, treating a duplicate gmail_id as
// an already-processed no-op.
func (s *Service) insert(email models.Email) (bool, error) {
	if err := s.db.Create(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
