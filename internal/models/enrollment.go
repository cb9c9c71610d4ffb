package models

import "time"

// EnrollmentStatus tracks whether an enrollment is current.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// UserCourse links a user to a course with a per-pair role. The same user may
// be a student in one course and a grader in another.
type UserCourse struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID  uint             `gorm:"not null;uniqueIndex:idx_user_course" json:"course_id"`
	Status    EnrollmentStatus `gorm:"size:32;not null;default:active" json:"status"`
	Role      UserRole         `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
