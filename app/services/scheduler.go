package services

import (
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/database"
)

// Clock abstracts wall-clock time so tests can drive the scheduler
// through midnight without real timers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// PassResetScheduler force-returns every active pass across all tenant
// schools at local midnight, then sweeps expired trials. It re-arms
// itself by recomputing the delta to the next midnight each cycle, so
// DST shifts don't drift the run time the way a fixed 24h interval
// would.
type PassResetScheduler struct {
	db     *sql.DB
	logger *zap.Logger
	clock  Clock

	mu       sync.Mutex
	nextRun  time.Time
	started  bool
	stopChan chan struct{}
}

// NewPassResetScheduler builds a scheduler on the real clock.
func NewPassResetScheduler(db *sql.DB, logger *zap.Logger) *PassResetScheduler {
	return NewPassResetSchedulerWithClock(db, logger, realClock{})
}

// NewPassResetSchedulerWithClock builds a scheduler on an injected
// clock. Test-facing constructor.
func NewPassResetSchedulerWithClock(db *sql.DB, logger *zap.Logger, clock Clock) *PassResetScheduler {
	return &PassResetScheduler{
		db:       db,
		logger:   logger,
		clock:    clock,
		stopChan: make(chan struct{}),
	}
}

// NextMidnight returns the next local midnight strictly after now.
func NextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}

// Start arms the midnight timer. Safe to call once per scheduler.
func (s *PassResetScheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.nextRun = NextMidnight(s.clock.Now())
	s.mu.Unlock()

	s.logger.Info("pass reset scheduler started", zap.Time("next_run", s.nextRun))
	go s.run()
}

// Stop tears the timer down. The scheduler cannot be restarted.
func (s *PassResetScheduler) Stop() {
	close(s.stopChan)
	s.logger.Info("pass reset scheduler stopped")
}

func (s *PassResetScheduler) run() {
	for {
		s.mu.Lock()
		next := s.nextRun
		s.mu.Unlock()

		delay := next.Sub(s.clock.Now())
		if delay < 0 {
			delay = 0
		}

		select {
		case <-s.clock.After(delay):
			s.runResetCycle()
			s.mu.Lock()
			s.nextRun = NextMidnight(s.clock.Now())
			next = s.nextRun
			s.mu.Unlock()
			s.logger.Info("pass reset scheduler re-armed", zap.Time("next_run", next))
		case <-s.stopChan:
			return
		}
	}
}

// runResetCycle walks every school; one school's failure never aborts
// the rest, and never stops the timer from re-arming.
func (s *PassResetScheduler) runResetCycle() {
	now := s.clock.Now()
	schoolIDs, err := database.GetAllSchoolIDs(s.db)
	if err != nil {
		s.logger.Error("daily reset: failed to list schools", zap.Error(err))
		return
	}

	total := 0
	failed := 0
	for _, schoolID := range schoolIDs {
		count, err := database.ReturnAllActivePasses(s.db, schoolID, now)
		if err != nil {
			failed++
			s.logger.Error("daily reset: school failed", zap.String("school_id", schoolID), zap.Error(err))
			continue
		}
		total += count
	}
	s.logger.Info("daily pass reset completed",
		zap.Int("schools", len(schoolIDs)),
		zap.Int("failed", failed),
		zap.Int("passes_returned", total),
	)

	expired, err := database.ExpireOverdueTrials(s.db, now)
	if err != nil {
		s.logger.Error("daily reset: trial expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired overdue trials", zap.Int("schools", expired))
	}
}

// ResetSchool is the manual admin trigger for a single school. Returns
// how many passes were force-returned.
func (s *PassResetScheduler) ResetSchool(schoolID string) (int, error) {
	count, err := database.ReturnAllActivePasses(s.db, schoolID, s.clock.Now())
	if err != nil {
		return 0, err
	}
	s.logger.Info("manual pass reset", zap.String("school_id", schoolID), zap.Int("passes_returned", count))
	return count, nil
}

// Status reports when the next automatic reset fires and how long
// until then.
func (s *PassResetScheduler) Status() (time.Time, time.Duration) {
	s.mu.Lock()
	next := s.nextRun
	s.mu.Unlock()

	if next.IsZero() {
		next = NextMidnight(s.clock.Now())
	}
	remaining := next.Sub(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return next, remaining
}
