package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// CourseCreateRequest creates a course, optionally bound to a template.
type CourseCreateRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=255"`
	TemplateID *uint  `json:"template_id" validate:"omitempty,gt=0"`
}

// CourseUpdateRequest renames or (de)activates a course.
type CourseUpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=3,max=255"`
	Active *bool   `json:"active"`
}

// CourseSetTemplateRequest rebinds the scaffold template; a nil TemplateID
// clears it.
type CourseSetTemplateRequest struct {
	TemplateID *uint `json:"template_id" validate:"omitempty,gt=0"`
}

// CourseResponse serializes a course.
type CourseResponse struct {
	ID          uint                 `json:"id"`
	TemplateID  *uint                `json:"template_id"`
	Name        string               `json:"name"`
	Active      bool                 `json:"active"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:         model.ID,
		TemplateID: model.CourseTemplateID,
		Name:       model.Name,
		Active:     model.Active,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}

	if len(model.Assignments) > 0 {
		response.Assignments = NewAssignmentResponseSlice(model.Assignments)
	}

	return response
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
