package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssignmentType categorizes assignments for grouping and reporting. The tag
// is the persisted representation; reordering these constants never changes
// stored data.
type AssignmentType string

const (
	AssignmentTypeHomework AssignmentType = "homework"
	AssignmentTypeQuiz     AssignmentType = "quiz"
	AssignmentTypeExam     AssignmentType = "exam"
	AssignmentTypeProject  AssignmentType = "project"
)

// Valid reports whether the type is one of the known tags.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentTypeHomework, AssignmentTypeQuiz, AssignmentTypeExam, AssignmentTypeProject:
		return true
	default:
		return false
	}
}

// CourseTemplate is a reusable grading scheme. Courses instantiated from a
// template copy its slot metadata; later edits to the template never touch
// existing courses.
type CourseTemplate struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	Name      string               `gorm:"size:255;not null" json:"name"`
	Slots     []AssignmentTemplate `gorm:"foreignKey:CourseTemplateID" json:"slots"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// TotalWeight sums the weights of all slots.
func (t CourseTemplate) TotalWeight() float64 {
	var sum float64
	for _, slot := range t.Slots {
		sum += slot.Weight
	}
	return sum
}

// AssignmentTemplate is one weighted slot in a course template. It carries the
// grading metadata copied onto concrete assignments at instantiation time.
type AssignmentTemplate struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	CourseTemplateID uint                        `gorm:"not null;index" json:"course_template_id"`
	Weight           float64                     `gorm:"not null" json:"weight"`
	Type             AssignmentType              `gorm:"size:32;not null" json:"type"`
	SubmissionTypes  datatypes.JSONSlice[string] `json:"submission_types"`
	Position         int                         `gorm:"not null;default:0" json:"position"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}
