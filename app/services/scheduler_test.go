package services

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeClock pins Now and hands out timer channels the test controls.
type fakeClock struct {
	now   time.Time
	fired chan time.Time
	armed chan time.Duration
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{
		now:   now,
		fired: make(chan time.Time),
		armed: make(chan time.Duration, 8),
	}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	f.armed <- d
	return f.fired
}

func TestNextMidnight(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect time.Time
	}{
		{
			time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			// Exactly midnight arms for the following day.
			time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			// Month boundary.
			time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// Year boundary.
			time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		if got := NextMidnight(tc.now); !got.Equal(tc.expect) {
			t.Fatalf("NextMidnight(%v) = %v, expected %v", tc.now, got, tc.expect)
		}
	}
}

func TestNextMidnightAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-08 is the spring-forward date in America/New_York: the
	// day is 23 hours long. Recomputing the delta each cycle must land
	// on wall-clock midnight, not 24h later.
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, loc)
	next := NextMidnight(now)
	if next.Hour() != 0 || next.Minute() != 0 {
		t.Fatalf("expected wall-clock midnight, got %v", next)
	}
	if next.Day() != 9 {
		t.Fatalf("expected March 9th, got %v", next)
	}
	if d := next.Sub(now); d == 15*time.Hour {
		t.Fatalf("expected DST-shortened delta, got a fixed 24h-style interval")
	}
}

func TestSchedulerStatusBeforeStart(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))
	s := NewPassResetSchedulerWithClock(nil, zap.NewNop(), clock)

	next, remaining := s.Status()
	if !next.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next run %v", next)
	}
	if remaining != 6*time.Hour {
		t.Fatalf("expected 6h remaining, got %v", remaining)
	}
}

func TestSchedulerArmsForNextMidnight(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	s := NewPassResetSchedulerWithClock(nil, zap.NewNop(), clock)

	s.Start()
	defer s.Stop()

	select {
	case delay := <-clock.armed:
		if delay != time.Hour {
			t.Fatalf("expected timer armed for 1h, got %v", delay)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler never armed its timer")
	}

	next, remaining := s.Status()
	if !next.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next run %v", next)
	}
	if remaining != time.Hour {
		t.Fatalf("expected 1h remaining, got %v", remaining)
	}
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	s := NewPassResetSchedulerWithClock(nil, zap.NewNop(), clock)

	s.Start()
	s.Start()
	defer s.Stop()

	<-clock.armed
	select {
	case <-clock.armed:
		t.Fatalf("second Start must not spawn a second timer loop")
	case <-time.After(100 * time.Millisecond):
	}
}
