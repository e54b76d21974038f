package models

import "time"

// Pass is one instance of a student leaving and returning. Duration is
// filled exactly once, at the return transition; rows are retained
// indefinitely for reporting and only removed by school cascade.
type Pass struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SchoolID     string     `json:"school_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID    string     `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TeacherID    string     `json:"teacher_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PassType     string     `json:"pass_type" gorm:"type:varchar(50);default:'general'"`
	Status       PassStatus `json:"status" gorm:"not null;default:'out';index;type:varchar(20)" validate:"required"`
	CheckoutTime time.Time  `json:"checkout_time" gorm:"not null"`
	ReturnTime   *time.Time `json:"return_time,omitempty"`
	Duration     *int       `json:"duration,omitempty"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Teacher *User    `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
}

// PassDuration computes the minutes a pass was out, rounded to the
// nearest whole minute.
func PassDuration(checkout, returned time.Time) int {
	ms := returned.Sub(checkout).Milliseconds()
	return int((ms + 30000) / 60000)
}
