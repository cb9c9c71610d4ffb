package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for an upload.
type SubmissionCreateRequest struct {
	AssignmentID    uint   `form:"assignment_id" validate:"required,gt=0"`
	CollaboratorIDs []uint `form:"collaborator_ids" validate:"required,min=1,dive,gt=0"`
}

// GradeRequest records earned points for a submission.
type GradeRequest struct {
	PointsEarned float64 `json:"points_earned" validate:"gte=0"`
	Feedback     string  `json:"feedback" validate:"omitempty,max=4000"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID   *uint   `query:"assignment_id"`
	CollaboratorID *uint   `query:"collaborator_id"`
	Status         *string `query:"status" validate:"omitempty,oneof=ungraded late graded"`
}

// CollaboratorLite identifies one joint owner of a submission.
type CollaboratorLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            uint               `json:"id"`
	AssignmentID  uint               `json:"assignment_id"`
	GraderID      *uint              `json:"grader_id"`
	FileURL       string             `json:"file_url"`
	SubmittedAt   time.Time          `json:"submitted_at"`
	PointsEarned  float64            `json:"points_earned"`
	Grade         *float64           `json:"grade"`
	Feedback      string             `json:"feedback"`
	Status        string             `json:"status"`
	GradedAt      *time.Time         `json:"graded_at"`
	Assignment    AssignmentLite     `json:"assignment"`
	Collaborators []CollaboratorLite `json:"collaborators"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	DueDate   time.Time `json:"due_date"`
	MaxPoints float64   `json:"max_points"`
	Weight    float64   `json:"weight"`
}

// NewSubmissionResponse converts a Submission model into a DTO. Unpublished
// grades are hidden behind a nil pointer rather than leaking the sentinel.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		GraderID:     model.GraderID,
		FileURL:      model.FileURL,
		SubmittedAt:  model.SubmittedAt,
		PointsEarned: model.PointsEarned,
		Feedback:     model.Feedback,
		Status:       model.Status,
		GradedAt:     model.GradedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.IsPublished() {
		grade := model.Grade
		response.Grade = &grade
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:        model.Assignment.ID,
			Name:      model.Assignment.Name,
			DueDate:   model.Assignment.DueDate,
			MaxPoints: model.Assignment.MaxPoints,
			Weight:    model.Assignment.Weight,
		}
	}

	if len(model.Collaborators) > 0 {
		collaborators := make([]CollaboratorLite, 0, len(model.Collaborators))
		for _, user := range model.Collaborators {
			collaborators = append(collaborators, CollaboratorLite{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			})
		}
		response.Collaborators = collaborators
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
