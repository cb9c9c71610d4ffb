package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// SlotRequest describes one weighted slot in a template payload.
type SlotRequest struct {
	Weight          float64  `json:"weight" validate:"required,gt=0,lte=1"`
	Type            string   `json:"type" validate:"required,oneof=homework quiz exam project"`
	SubmissionTypes []string `json:"submission_types" validate:"omitempty,dive,min=1"`
}

// TemplateCreateRequest is the payload for authoring a course template.
type TemplateCreateRequest struct {
	Name  string        `json:"name" validate:"required,min=3,max=255"`
	Slots []SlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// TemplateUpdateRequest replaces a template's name and entire slot set.
type TemplateUpdateRequest struct {
	Name  string        `json:"name" validate:"required,min=3,max=255"`
	Slots []SlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// SlotResponse serializes an assignment template slot.
type SlotResponse struct {
	ID              uint     `json:"id"`
	Weight          float64  `json:"weight"`
	Type            string   `json:"type"`
	SubmissionTypes []string `json:"submission_types"`
	Position        int      `json:"position"`
}

// TemplateResponse serializes a course template with its slots.
type TemplateResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	TotalWeight float64        `json:"total_weight"`
	Slots       []SlotResponse `json:"slots"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewTemplateResponse converts a CourseTemplate model into a DTO.
func NewTemplateResponse(model models.CourseTemplate) TemplateResponse {
	slots := make([]SlotResponse, 0, len(model.Slots))
	for _, slot := range model.Slots {
		slots = append(slots, SlotResponse{
			ID:              slot.ID,
			Weight:          slot.Weight,
			Type:            string(slot.Type),
			SubmissionTypes: slot.SubmissionTypes,
			Position:        slot.Position,
		})
	}

	return TemplateResponse{
		ID:          model.ID,
		Name:        model.Name,
		TotalWeight: model.TotalWeight(),
		Slots:       slots,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewTemplateResponseSlice converts template models into DTOs.
func NewTemplateResponseSlice(templates []models.CourseTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, NewTemplateResponse(template))
	}

	return responses
}
