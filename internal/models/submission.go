package models

import "time"

const (
	// SubmissionStatusUngraded marks an on-time submission awaiting grading.
	SubmissionStatusUngraded = "ungraded"
	// SubmissionStatusLate marks a submission handed in after the deadline
	// and not yet graded.
	SubmissionStatusLate = "late"
	// SubmissionStatusGraded marks a submission that has earned points.
	SubmissionStatusGraded = "graded"
)

// UnpublishedGrade is the sentinel for a grade that has not been published.
// Published grades are percentages in [0, 100].
const UnpublishedGrade = -1.0

// Submission is a file handed in against an assignment, jointly owned by one
// or more collaborators.
type Submission struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	AssignmentID  uint                     `gorm:"not null;index" json:"assignment_id"`
	GraderID      *uint                    `json:"grader_id"`
	FileURL       string                   `gorm:"size:512" json:"file_url"`
	SubmittedAt   time.Time                `gorm:"not null" json:"submitted_at"`
	PointsEarned  float64                  `json:"points_earned"`
	Grade         float64                  `gorm:"not null;default:-1" json:"grade"`
	Feedback      string                   `gorm:"type:text" json:"feedback"`
	Status        string                   `gorm:"size:32;not null" json:"status"`
	GradedAt      *time.Time               `json:"graded_at"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Assignment    Assignment               `json:"assignment"`
	Collaborators []User                   `gorm:"many2many:submission_collaborators" json:"collaborators"`
	History       []SubmissionGradeHistory `gorm:"foreignKey:SubmissionID" json:"history,omitempty"`
}

// IsGraded reports whether the submission has earned points recorded.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// IsPublished reports whether the percentage grade is visible to students.
func (s Submission) IsPublished() bool {
	return s.Grade >= 0
}

// SubmissionGradeHistory records every grading action taken on a submission.
type SubmissionGradeHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	PointsEarned float64   `gorm:"not null" json:"points_earned"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	GradedBy     uint      `gorm:"not null" json:"graded_by"`
	GradedAt     time.Time `gorm:"not null" json:"graded_at"`
}
