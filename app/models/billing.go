package models

import "time"

// Payment is an append-only audit row written by the Stripe webhook
// handler. StripeSessionID is unique so replayed webhooks cannot insert
// the same payment twice. Never mutated after insert.
type Payment struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID        string    `json:"school_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StripeSessionID string    `json:"stripe_session_id" gorm:"uniqueIndex;not null" validate:"required"`
	AmountTotal     int64     `json:"amount_total"`
	Currency        string    `json:"currency" gorm:"type:varchar(10)"`
	Plan            PlanID    `json:"plan" gorm:"type:varchar(30)"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// SubscriptionEvent is an append-only audit row for every billing
// webhook the handler acted on (or deliberately skipped).
type SubscriptionEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID  *string   `json:"school_id,omitempty" gorm:"index;type:uuid"`
	EventType string    `json:"event_type" gorm:"not null;index" validate:"required"`
	StripeID  string    `json:"stripe_id" gorm:"not null"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
