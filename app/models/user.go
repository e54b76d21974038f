package models

import (
	"time"

	"github.com/lib/pq"
)

// User is a teacher or admin. Email is unique per school, not globally:
// the same address may belong to several schools and the login flow
// disambiguates. SchoolID is nullable only for the platform owner.
type User struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID       *string        `json:"school_id,omitempty" gorm:"index;type:uuid"`
	Email          string         `json:"email" gorm:"not null;index" validate:"required,email"`
	Password       string         `json:"-" gorm:"not null"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	IsAdmin        bool           `json:"is_admin" gorm:"default:false"`
	Status         UserStatus     `json:"status" gorm:"not null;default:'pending';type:varchar(20)" validate:"required"`
	AssignedGrades pq.StringArray `json:"assigned_grades" gorm:"type:text[]"`
	KioskPIN       *string        `json:"kiosk_pin,omitempty" gorm:"type:varchar(10)"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	School *School `json:"school,omitempty" gorm:"foreignKey:SchoolID;references:ID"`
}

// Role returns the session role for the user.
func (u *User) Role() UserRole {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleTeacher
}

// Grade is a grade level within one school, used to group students and
// scope teacher assignments.
type Grade struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID  string    `json:"school_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name      string    `json:"name" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Student is one roster entry within a school.
type Student struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID  string    `json:"school_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GradeID   *string   `json:"grade_id,omitempty" gorm:"index;type:uuid"`
	FirstName string    `json:"first_name" gorm:"not null" validate:"required"`
	LastName  string    `json:"last_name" gorm:"not null" validate:"required"`
	StudentNo *string   `json:"student_no,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
