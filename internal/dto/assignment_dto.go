package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// AssignmentCreateRequest creates an assignment inside a course. When
// TemplateSlotID is set, weight/type/submission types are copied from that
// slot and must not be supplied; otherwise Weight and Type are required.
type AssignmentCreateRequest struct {
	Name            string    `json:"name" validate:"required,min=3,max=255"`
	DueDate         time.Time `json:"due_date" validate:"required"`
	MaxPoints       float64   `json:"max_points" validate:"required,gt=0"`
	TemplateSlotID  *uint     `json:"template_slot_id" validate:"omitempty,gt=0"`
	Weight          *float64  `json:"weight" validate:"omitempty,gt=0,lte=1"`
	Type            *string   `json:"type" validate:"omitempty,oneof=homework quiz exam project"`
	SubmissionTypes []string  `json:"submission_types" validate:"omitempty,dive,min=1"`
}

// AssignmentUpdateRequest mutates an assignment's own fields. The template
// link is copy-on-create only, so there is nothing template-related here.
type AssignmentUpdateRequest struct {
	Name            *string    `json:"name" validate:"omitempty,min=3,max=255"`
	DueDate         *time.Time `json:"due_date"`
	MaxPoints       *float64   `json:"max_points" validate:"omitempty,gt=0"`
	Weight          *float64   `json:"weight" validate:"omitempty,gt=0,lte=1"`
	Type            *string    `json:"type" validate:"omitempty,oneof=homework quiz exam project"`
	SubmissionTypes []string   `json:"submission_types" validate:"omitempty,dive,min=1"`
}

// AssignmentResponse serializes an assignment.
type AssignmentResponse struct {
	ID              uint      `json:"id"`
	CourseID        uint      `json:"course_id"`
	Name            string    `json:"name"`
	DueDate         time.Time `json:"due_date"`
	MaxPoints       float64   `json:"max_points"`
	Weight          float64   `json:"weight"`
	Type            string    `json:"type"`
	SubmissionTypes []string  `json:"submission_types"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              model.ID,
		CourseID:        model.CourseID,
		Name:            model.Name,
		DueDate:         model.DueDate,
		MaxPoints:       model.MaxPoints,
		Weight:          model.Weight,
		Type:            string(model.Type),
		SubmissionTypes: model.SubmissionTypes,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
