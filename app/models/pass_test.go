package models

import (
	"testing"
	"time"
)

func TestPassDuration(t *testing.T) {
	checkout := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		expect  int
	}{
		{0, 0},
		{29 * time.Second, 0},
		{30 * time.Second, 1},
		{1 * time.Minute, 1},
		{5*time.Minute + 29*time.Second, 5},
		{5*time.Minute + 30*time.Second, 6},
		{90 * time.Minute, 90},
	}
	for _, tc := range cases {
		if got := PassDuration(checkout, checkout.Add(tc.elapsed)); got != tc.expect {
			t.Fatalf("PassDuration after %v = %d, expected %d", tc.elapsed, got, tc.expect)
		}
	}
}

func TestSchoolOnTrial(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := now.Add(24 * time.Hour)

	school := &School{Plan: PlanTrial, TrialEndDate: &end}
	if !school.OnTrial(now) {
		t.Fatalf("expected school to be on trial before trial end")
	}
	if school.OnTrial(end.Add(time.Minute)) {
		t.Fatalf("expected trial to be over after trial end")
	}

	paid := &School{Plan: PlanSmallSchool, TrialEndDate: &end}
	if paid.OnTrial(now) {
		t.Fatalf("paid plan must never report on-trial")
	}

	noDates := &School{Plan: PlanTrial}
	if noDates.OnTrial(now) {
		t.Fatalf("trial without end date must not report on-trial")
	}
}
