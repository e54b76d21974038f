package models

import "testing"

func TestPlanCatalogLimits(t *testing.T) {
	for _, plan := range AllPlans() {
		if plan.MaxTeachers < 1 && plan.MaxTeachers != UnlimitedSeats {
			t.Fatalf("plan %s has invalid teacher limit %d", plan.ID, plan.MaxTeachers)
		}
		if plan.MaxStudents < 1 {
			t.Fatalf("plan %s has invalid student limit %d", plan.ID, plan.MaxStudents)
		}
	}
}

func TestTrialHasNoPriceAndPaidPlansDo(t *testing.T) {
	for _, plan := range AllPlans() {
		if plan.ID == PlanTrial {
			if plan.StripePriceID != "" {
				t.Fatalf("trial plan must not carry a price reference")
			}
			if plan.Interval != IntervalNone {
				t.Fatalf("trial plan must not recur, got %s", plan.Interval)
			}
			continue
		}
		if plan.StripePriceID == "" {
			t.Fatalf("paid plan %s has no price reference", plan.ID)
		}
	}
}

func TestPlanByID(t *testing.T) {
	plan, err := PlanByID(PlanSmallSchool)
	if err != nil {
		t.Fatalf("expected SMALL_SCHOOL to resolve: %v", err)
	}
	if plan.MaxTeachers != 25 {
		t.Fatalf("expected 25 teacher seats, got %d", plan.MaxTeachers)
	}

	if _, err := PlanByID("MEGA_SCHOOL"); err == nil {
		t.Fatalf("expected unknown plan to error")
	}
}

func TestNormalizePlanID(t *testing.T) {
	cases := map[string]PlanID{
		"TRIAL":             PlanTrial,
		"trial":             PlanTrial,
		"free_trial":        PlanTrial,
		" Free_Trial ":      PlanTrial,
		"teacher_monthly":   PlanTeacherMonthly,
		"SMALL_TEAM_ANNUAL": PlanSmallTeamAnnual,
	}
	for input, expect := range cases {
		if got := NormalizePlanID(input); got != expect {
			t.Fatalf("NormalizePlanID(%q) = %q, expected %q", input, got, expect)
		}
	}
}

func TestPlanByPriceIDRoundTrip(t *testing.T) {
	for _, plan := range AllPlans() {
		if plan.StripePriceID == "" {
			continue
		}
		resolved, err := PlanByPriceID(plan.StripePriceID)
		if err != nil {
			t.Fatalf("price %s did not resolve: %v", plan.StripePriceID, err)
		}
		if resolved.ID != plan.ID {
			t.Fatalf("price %s resolved to %s, expected %s", plan.StripePriceID, resolved.ID, plan.ID)
		}
	}

	if _, err := PlanByPriceID("price_unknown"); err == nil {
		t.Fatalf("expected unmapped price to error")
	}
	if _, err := PlanByPriceID(""); err == nil {
		t.Fatalf("expected empty price to error")
	}
}
