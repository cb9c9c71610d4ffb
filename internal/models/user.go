package models

import "time"

// UserRole identifies what a user may do within a course. Roles are stored as
// stable string tags, never as enum ordinals.
type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleGrader  UserRole = "grader"
	UserRoleTeacher UserRole = "teacher"
	UserRoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the known tags.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleGrader, UserRoleTeacher, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// User represents any person in the system. Per-course permissions come from
// the enrollment role, not from a user subtype.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      UserRole  `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
