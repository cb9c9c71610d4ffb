package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrSlotNotInTemplate indicates the requested template slot does not belong
// to the course's bound template.
var ErrSlotNotInTemplate = errors.New("template slot does not belong to the course template")

// ErrMissingGradingMetadata indicates an ad hoc assignment was created
// without weight or type and without a template slot to copy them from.
var ErrMissingGradingMetadata = errors.New("weight and type are required without a template slot")

// AssignmentService manages assignments scoped to a course. Creation either
// copies grading metadata from a template slot or takes it from the payload;
// the template is a scaffold, never a hard constraint on the course.
type AssignmentService interface {
	List(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, courseID, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, courseID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, courseID, id uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	templates   repository.TemplateRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, courses repository.CourseRepository, templates repository.TemplateRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		templates:   templates,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error) {
	if _, err := s.loadCourse(ctx, courseID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, courseID, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.loadAssignment(ctx, courseID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:        courseID,
		Name:            payload.Name,
		DueDate:         payload.DueDate,
		MaxPoints:       payload.MaxPoints,
		SubmissionTypes: payload.SubmissionTypes,
	}

	if payload.TemplateSlotID != nil {
		slot, err := s.findSlot(ctx, course, *payload.TemplateSlotID)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Weight = slot.Weight
		assignment.Type = slot.Type
		if len(payload.SubmissionTypes) == 0 {
			assignment.SubmissionTypes = slot.SubmissionTypes
		}
	} else {
		if payload.Weight == nil || payload.Type == nil {
			return dto.AssignmentResponse{}, ErrMissingGradingMetadata
		}
		assignment.Weight = *payload.Weight
		assignment.Type = models.AssignmentType(*payload.Type)
	}

	if err := grading.ValidateWeight(assignment.Weight); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("course_id", courseID).
		Str("type", string(assignment.Type)).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, courseID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadAssignment(ctx, courseID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Name != nil {
		assignment.Name = *payload.Name
	}
	if payload.DueDate != nil {
		assignment.DueDate = *payload.DueDate
	}
	if payload.MaxPoints != nil {
		assignment.MaxPoints = *payload.MaxPoints
	}
	if payload.Weight != nil {
		if err := grading.ValidateWeight(*payload.Weight); err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Weight = *payload.Weight
	}
	if payload.Type != nil {
		assignment.Type = models.AssignmentType(*payload.Type)
	}
	if payload.SubmissionTypes != nil {
		assignment.SubmissionTypes = payload.SubmissionTypes
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, courseID, id uint) error {
	if _, err := s.loadAssignment(ctx, courseID, id); err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Uint("course_id", courseID).Msg("assignment deleted")

	return nil
}

func (s *assignmentService) loadCourse(ctx context.Context, courseID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}

func (s *assignmentService) loadAssignment(ctx context.Context, courseID, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.CourseID != courseID {
		return models.Assignment{}, ErrAssignmentNotFound
	}

	return assignment, nil
}

// findSlot resolves a slot id against the course's bound template.
func (s *assignmentService) findSlot(ctx context.Context, course models.Course, slotID uint) (models.AssignmentTemplate, error) {
	if course.CourseTemplateID == nil {
		return models.AssignmentTemplate{}, ErrSlotNotInTemplate
	}

	template, err := s.templates.GetByID(ctx, *course.CourseTemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AssignmentTemplate{}, ErrTemplateNotFound
		}
		return models.AssignmentTemplate{}, err
	}

	for _, slot := range template.Slots {
		if slot.ID == slotID {
			return slot, nil
		}
	}

	return models.AssignmentTemplate{}, ErrSlotNotInTemplate
}
