package models

import "time"

// School is a tenant. All other rows hang off it and are removed by
// cascade when the school is deleted.
type School struct {
	ID                 string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name               string       `json:"name" gorm:"not null" validate:"required,min=2,max=100"`
	Slug               string       `json:"slug" gorm:"uniqueIndex;not null" validate:"required"`
	Plan               PlanID       `json:"plan" gorm:"not null;type:varchar(30)" validate:"required"`
	Status             SchoolStatus `json:"status" gorm:"not null;default:'PENDING';type:varchar(20)" validate:"required"`
	MaxTeachers        int          `json:"max_teachers" gorm:"not null"`
	MaxStudents        int          `json:"max_students" gorm:"not null"`
	AdminEmail         string       `json:"admin_email" gorm:"not null;index" validate:"required,email"`
	Verified           bool         `json:"verified" gorm:"default:false"`
	TrialStartDate     *time.Time   `json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time   `json:"trial_end_date,omitempty"`
	IsTrialExpired     bool         `json:"is_trial_expired" gorm:"default:false"`
	StripeCustomerID   *string      `json:"stripe_customer_id,omitempty" gorm:"index"`
	SubscriptionID     *string      `json:"subscription_id,omitempty" gorm:"index"`
	SubscriptionEndsAt *time.Time   `json:"subscription_ends_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// OnTrial reports whether the school is on the trial tier with an
// unexpired trial window at the given instant.
func (s *School) OnTrial(now time.Time) bool {
	return s.Plan == PlanTrial && s.TrialEndDate != nil && now.Before(*s.TrialEndDate)
}
