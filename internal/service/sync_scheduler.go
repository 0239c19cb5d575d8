package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"healthmon-backend/internal/delivery/dto"

	"github.com/sirupsen/logrus"
)

// ErrSyncInProgress is returned when a run is requested while another is still going.
var ErrSyncInProgress = errors.New("sheet sync already in progress")

// SyncRunner performs one reconciliation.
type SyncRunner interface {
	Run(ctx context.Context) (*dto.SyncResponse, error)
}

// SyncScheduler runs the sheet sync on a fixed interval and on demand.
// At most one run is active at a time; a tick that finds a run in
// progress is skipped rather than queued.
type SyncScheduler struct {
	runner   SyncRunner
	log      *logrus.Logger
	interval time.Duration

	running atomic.Bool

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewSyncScheduler(runner SyncRunner, log *logrus.Logger, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		runner:   runner,
		log:      log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the ticker loop. A zero interval disables scheduling;
// Trigger still works.
func (s *SyncScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("Scheduled sheet sync disabled")
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go s.loop(ctx)
	s.log.Infof("Scheduled sheet sync every %s", s.interval)
}

// Stop waits for the loop and any scheduled run to finish. Safe to call
// multiple times.
func (s *SyncScheduler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SyncScheduler stopped")
	}
}

// Trigger runs a sync now, or returns ErrSyncInProgress.
func (s *SyncScheduler) Trigger(ctx context.Context) (*dto.SyncResponse, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	return s.runner.Run(ctx)
}

// Running reports whether a sync is in progress.
func (s *SyncScheduler) Running() bool {
	return s.running.Load()
}

func (s *SyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(ctx); err != nil {
				if errors.Is(err, ErrSyncInProgress) {
					s.log.Info("Previous sheet sync still running, skipping tick")
					continue
				}
				s.log.Errorf("Scheduled sheet sync failed: %+v", err)
			}
		}
	}
}
