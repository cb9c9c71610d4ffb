package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrTemplateNotFound indicates the course template was not located.
var ErrTemplateNotFound = errors.New("template not found")

// ErrTemplateInUse indicates the template is still referenced by courses.
var ErrTemplateInUse = errors.New("template is referenced by existing courses")

// templateImportSchema constrains raw template documents accepted by Import.
const templateImportSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "slots"],
	"properties": {
		"name": {"type": "string", "minLength": 3, "maxLength": 255},
		"slots": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["weight", "type"],
				"properties": {
					"weight": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
					"type": {"enum": ["homework", "quiz", "exam", "project"]},
					"submission_types": {"type": "array", "items": {"type": "string", "minLength": 1}}
				}
			}
		}
	}
}`

// TemplateService authors and versions course templates. Weight validation
// always happens before any write reaches the store.
type TemplateService interface {
	List(ctx context.Context) ([]dto.TemplateResponse, error)
	Get(ctx context.Context, id uint) (dto.TemplateResponse, error)
	Create(ctx context.Context, payload dto.TemplateCreateRequest) (dto.TemplateResponse, error)
	Update(ctx context.Context, id uint, payload dto.TemplateUpdateRequest) (dto.TemplateResponse, error)
	Delete(ctx context.Context, id uint, detachCourses bool) error
	Import(ctx context.Context, document []byte) (dto.TemplateResponse, error)
}

type templateService struct {
	repo      repository.TemplateRepository
	validator *validator.Validate
	schema    *jsonschema.Schema
	logger    zerolog.Logger
}

// NewTemplateService constructs the template service. Panics if the embedded
// import schema does not compile, which only happens on a programming error.
func NewTemplateService(repo repository.TemplateRepository, validate *validator.Validate, logger zerolog.Logger) TemplateService {
	schema, err := jsonschema.CompileString("template-import.json", templateImportSchema)
	if err != nil {
		panic(fmt.Sprintf("template import schema does not compile: %v", err))
	}

	return &templateService{
		repo:      repo,
		validator: validate,
		schema:    schema,
		logger:    logger.With().Str("component", "template_service").Logger(),
	}
}

func (s *templateService) List(ctx context.Context) ([]dto.TemplateResponse, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTemplateResponseSlice(templates), nil
}

func (s *templateService) Get(ctx context.Context, id uint) (dto.TemplateResponse, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TemplateResponse{}, ErrTemplateNotFound
		}
		return dto.TemplateResponse{}, err
	}

	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Create(ctx context.Context, payload dto.TemplateCreateRequest) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}

	slots, err := buildSlots(payload.Slots)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template := models.CourseTemplate{Name: payload.Name, Slots: slots}
	if err := s.repo.Create(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().Uint("template_id", template.ID).Int("slots", len(template.Slots)).Msg("template created")

	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Update(ctx context.Context, id uint, payload dto.TemplateUpdateRequest) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}

	slots, err := buildSlots(payload.Slots)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template := models.CourseTemplate{ID: id, Name: payload.Name, Slots: slots}
	if err := s.repo.Update(ctx, &template); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TemplateResponse{}, ErrTemplateNotFound
		}
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().Uint("template_id", id).Int("slots", len(template.Slots)).Msg("template updated")

	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Delete(ctx context.Context, id uint, detachCourses bool) error {
	referencing, err := s.repo.CountCourses(ctx, id)
	if err != nil {
		return err
	}
	if referencing > 0 && !detachCourses {
		return ErrTemplateInUse
	}

	if err := s.repo.Delete(ctx, id, detachCourses); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrTemplateNotFound
		case errors.Is(err, repository.ErrTemplateInUse):
			// The repo re-checks inside its transaction, so a course bound
			// between the count and the delete still refuses cleanly.
			return ErrTemplateInUse
		default:
			return err
		}
	}

	s.logger.Info().Uint("template_id", id).Bool("detached_courses", detachCourses).Int64("detached", referencing).Msg("template deleted")

	return nil
}

// Import accepts a raw JSON template document, validates it against the
// import schema and creates it through the same atomic path as Create.
func (s *templateService) Import(ctx context.Context, document []byte) (dto.TemplateResponse, error) {
	var raw interface{}
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("invalid template document: %w", err)
	}

	if err := s.schema.Validate(raw); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("template document rejected: %w", err)
	}

	var payload dto.TemplateCreateRequest
	if err := json.Unmarshal(document, &payload); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("invalid template document: %w", err)
	}

	return s.Create(ctx, payload)
}

// buildSlots converts slot payloads into models after enforcing the weight
// invariants: each weight in (0, 1], the sum within epsilon of 1.0.
func buildSlots(requests []dto.SlotRequest) ([]models.AssignmentTemplate, error) {
	weights := make([]float64, 0, len(requests))
	for _, slot := range requests {
		weights = append(weights, slot.Weight)
	}
	if err := grading.ValidateWeights(weights); err != nil {
		return nil, err
	}

	slots := make([]models.AssignmentTemplate, 0, len(requests))
	for i, slot := range requests {
		slots = append(slots, models.AssignmentTemplate{
			Weight:          slot.Weight,
			Type:            models.AssignmentType(slot.Type),
			SubmissionTypes: slot.SubmissionTypes,
			Position:        i,
		})
	}

	return slots, nil
}
