package models

import (
	"fmt"
	"strings"
)

// PlanID identifies a subscription tier.
type PlanID string

const (
	PlanTrial            PlanID = "TRIAL"
	PlanTeacherMonthly   PlanID = "TEACHER_MONTHLY"
	PlanTeacherAnnual    PlanID = "TEACHER_ANNUAL"
	PlanSmallTeamMonthly PlanID = "SMALL_TEAM_MONTHLY"
	PlanSmallTeamAnnual  PlanID = "SMALL_TEAM_ANNUAL"
	PlanSmallSchool      PlanID = "SMALL_SCHOOL"
	PlanMediumSchool     PlanID = "MEDIUM_SCHOOL"
	PlanLargeSchool      PlanID = "LARGE_SCHOOL"
)

// UnlimitedSeats is the sentinel for "no seat limit".
const UnlimitedSeats = -1

// Plan holds the entitlements attached to a tier. StripePriceID is
// empty only for the trial tier.
type Plan struct {
	ID            PlanID          `json:"id"`
	MaxTeachers   int             `json:"max_teachers"`
	MaxStudents   int             `json:"max_students"`
	StripePriceID string          `json:"-"`
	Interval      BillingInterval `json:"interval"`
}

// planCatalog is the single source of truth for what each tier allows.
// Price IDs reference Stripe test-mode prices; production values are
// expected to replace them via a config overlay before launch.
var planCatalog = map[PlanID]Plan{
	PlanTrial: {
		ID:          PlanTrial,
		MaxTeachers: 1,
		MaxStudents: 100,
		Interval:    IntervalNone,
	},
	PlanTeacherMonthly: {
		ID:            PlanTeacherMonthly,
		MaxTeachers:   1,
		MaxStudents:   150,
		StripePriceID: "price_teacher_monthly",
		Interval:      IntervalMonthly,
	},
	PlanTeacherAnnual: {
		ID:            PlanTeacherAnnual,
		MaxTeachers:   1,
		MaxStudents:   150,
		StripePriceID: "price_teacher_annual",
		Interval:      IntervalAnnual,
	},
	PlanSmallTeamMonthly: {
		ID:            PlanSmallTeamMonthly,
		MaxTeachers:   5,
		MaxStudents:   500,
		StripePriceID: "price_small_team_monthly",
		Interval:      IntervalMonthly,
	},
	PlanSmallTeamAnnual: {
		ID:            PlanSmallTeamAnnual,
		MaxTeachers:   5,
		MaxStudents:   500,
		StripePriceID: "price_small_team_annual",
		Interval:      IntervalAnnual,
	},
	PlanSmallSchool: {
		ID:            PlanSmallSchool,
		MaxTeachers:   25,
		MaxStudents:   1000,
		StripePriceID: "price_small_school",
		Interval:      IntervalAnnual,
	},
	PlanMediumSchool: {
		ID:            PlanMediumSchool,
		MaxTeachers:   75,
		MaxStudents:   2500,
		StripePriceID: "price_medium_school",
		Interval:      IntervalAnnual,
	},
	PlanLargeSchool: {
		ID:            PlanLargeSchool,
		MaxTeachers:   UnlimitedSeats,
		MaxStudents:   10000,
		StripePriceID: "price_large_school",
		Interval:      IntervalAnnual,
	},
}

// legacy lowercase identifiers from an earlier schema version
var planAliases = map[string]PlanID{
	"free_trial": PlanTrial,
	"trial":      PlanTrial,
}

// NormalizePlanID folds legacy aliases and casing into the canonical
// uppercase identifier. The returned value is not guaranteed to exist
// in the catalog; pair with PlanByID.
func NormalizePlanID(raw string) PlanID {
	if alias, ok := planAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return alias
	}
	return PlanID(strings.ToUpper(strings.TrimSpace(raw)))
}

// PlanByID looks up a tier in the catalog.
func PlanByID(id PlanID) (Plan, error) {
	plan, ok := planCatalog[id]
	if !ok {
		return Plan{}, fmt.Errorf("unknown plan %q", id)
	}
	return plan, nil
}

// PlanByPriceID maps a Stripe price reference back to its tier. Used by
// the subscription.updated webhook to remap a school's plan.
func PlanByPriceID(priceID string) (Plan, error) {
	for _, plan := range planCatalog {
		if plan.StripePriceID != "" && plan.StripePriceID == priceID {
			return plan, nil
		}
	}
	return Plan{}, fmt.Errorf("no plan for price %q", priceID)
}

// AllPlans returns every catalog entry.
func AllPlans() []Plan {
	plans := make([]Plan, 0, len(planCatalog))
	for _, plan := range planCatalog {
		plans = append(plans, plan)
	}
	return plans
}
