package models

// SchoolStatus defines the lifecycle states of a tenant school.
type SchoolStatus string

const (
	SchoolPending   SchoolStatus = "PENDING"
	SchoolActive    SchoolStatus = "ACTIVE"
	SchoolCancelled SchoolStatus = "CANCELLED"
	SchoolExpired   SchoolStatus = "EXPIRED"
)

// UserStatus defines the possible states of a teacher or admin account.
type UserStatus string

const (
	UserPending   UserStatus = "pending"
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// PassStatus defines the possible states of a hallway pass.
type PassStatus string

const (
	PassOut      PassStatus = "out"
	PassReturned PassStatus = "returned"
	PassRevoked  PassStatus = "revoked"
)

// UserRole defines the role carried in the session.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
)

// BillingInterval defines how a paid plan recurs.
type BillingInterval string

const (
	IntervalMonthly BillingInterval = "month"
	IntervalAnnual  BillingInterval = "year"
	IntervalNone    BillingInterval = "none"
)
