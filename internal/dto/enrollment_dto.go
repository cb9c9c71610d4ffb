package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// EnrollmentCreateRequest enrolls a user into a course with a role.
type EnrollmentCreateRequest struct {
	UserID uint   `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required,oneof=student grader teacher admin"`
}

// EnrollmentUpdateRequest changes the status of an enrollment and optionally
// its role.
type EnrollmentUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active dropped completed"`
	Role   string `json:"role" validate:"omitempty,oneof=student grader teacher admin"`
}

// EnrollmentResponse serializes a user↔course enrollment.
type EnrollmentResponse struct {
	UserID    uint      `json:"user_id"`
	CourseID  uint      `json:"course_id"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts a UserCourse model into a DTO.
func NewEnrollmentResponse(model models.UserCourse) EnrollmentResponse {
	return EnrollmentResponse{
		UserID:    model.UserID,
		CourseID:  model.CourseID,
		Status:    string(model.Status),
		Role:      string(model.Role),
		CreatedAt: model.CreatedAt,
	}
}

// NewEnrollmentResponseSlice converts enrollment models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.UserCourse) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
