package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment is a gradable unit owned by exactly one course. Weight, type and
// submission formats are independent copies of the template slot they came
// from (if any).
type Assignment struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	CourseID        uint                        `gorm:"not null;index" json:"course_id"`
	Name            string                      `gorm:"size:255;not null" json:"name"`
	DueDate         time.Time                   `gorm:"not null" json:"due_date"`
	MaxPoints       float64                     `gorm:"not null" json:"max_points"`
	Weight          float64                     `gorm:"not null" json:"weight"`
	Type            AssignmentType              `gorm:"size:32;not null" json:"type"`
	SubmissionTypes datatypes.JSONSlice[string] `json:"submission_types"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
