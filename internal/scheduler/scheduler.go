package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mailmuse/internal/config"
	"mailmuse/internal/digest"
	"mailmuse/internal/ingest"
)

// Scheduler runs the periodic ingestion and draft-generation jobs when
// the service is deployed without an external cron.
type Scheduler struct {
	cron        *cron.Cron
	ingestEntry cron.EntryID
	config      *config.SchedulerConfig
	ingester    *ingest.Service
	generator   *digest.Generator
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   bool
	mu          sync.RWMutex
}

// New creates a scheduler. generator may be nil to disable the draft job.
func New(cfg *config.SchedulerConfig, ingester *ingest.Service, generator *digest.Generator) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		config:    cfg,
		ingester:  ingester,
		generator: generator,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		s.cron = cron.New(cron.WithSeconds())
	}

	schedule := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)
	entryID, err := s.cron.AddFunc(schedule, s.runIngest)
	if err != nil {
		return fmt.Errorf("failed to add ingest job: %w", err)
	}
	s.ingestEntry = entryID

	if s.generator != nil && s.config.DraftSpec != "" {
		if _, err := s.cron.AddFunc(s.config.DraftSpec, s.runDraft); err != nil {
			return fmt.Errorf("failed to add draft job: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started: ingest every %d minutes, drafts on %q",
		s.config.IntervalMinutes, s.config.DraftSpec)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// runIngest is the periodic ingestion job
func (s *Scheduler) runIngest() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		return
	}
	ctx := s.ctx
	s.mu.RUnlock()

	if _, err := s.ingester.Run(ctx); err != nil {
		logrus.Errorf("Scheduled ingestion failed: %v", err)
	}
}

// runDraft is the periodic draft-generation job
func (s *Scheduler) runDraft() {
	s.wg.Add(1)
	defer s.wg.Done()

	category := s.config.DraftCategory
	if _, err := s.generator.Generate(category); err != nil {
		logrus.Errorf("Scheduled draft generation failed: %v", err)
	}
}

// RunIngestOnce runs the ingestion job immediately
func (s *Scheduler) RunIngestOnce() error {
	_, err := s.ingester.Run(s.ctx)
	return err
}

// NextIngestRun returns the time of the next scheduled ingestion
func (s *Scheduler) NextIngestRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.ingestEntry).Next
}

// Wait waits for in-flight jobs to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
