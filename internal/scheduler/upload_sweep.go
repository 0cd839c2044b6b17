// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bookmaster/bookmaster/internal/catalog"
	"github.com/bookmaster/bookmaster/internal/config"
)

// UploadSweepScheduler periodically removes uploaded files that no
// book references. It never participates in a request path.
type UploadSweepScheduler struct {
	sweep *catalog.SweepService
	cfg   config.Sweep

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewUploadSweepScheduler creates a new scheduler instance.
func NewUploadSweepScheduler(sweep *catalog.SweepService, cfg config.Sweep) *UploadSweepScheduler {
	return &UploadSweepScheduler{
		sweep: sweep,
		cfg:   cfg,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the sweep is enabled.
func (s *UploadSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Upload sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Upload sweep scheduler: started with schedule %q", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *UploadSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Upload sweep scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *UploadSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will occur.
func (s *UploadSweepScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSweep performs a single sweep pass.
func (s *UploadSweepScheduler) runSweep() {
	start := time.Now()

	removed, err := s.sweep.SweepOrphans()
	if err != nil {
		log.Printf("Upload sweep: failed: %v", err)
		return
	}

	log.Printf("Upload sweep: removed %d orphaned file(s) in %v", removed, time.Since(start).Round(time.Millisecond))
}
