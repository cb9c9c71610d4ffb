package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/events"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrCourseNotFound indicates the course was not located.
var ErrCourseNotFound = errors.New("course not found")

// CourseService materializes courses from templates (or ad hoc) and owns the
// cascading delete of the whole course aggregate.
type CourseService interface {
	List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	SetTemplate(ctx context.Context, id uint, payload dto.CourseSetTemplateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	courses   repository.CourseRepository
	templates repository.TemplateRepository
	validator *validator.Validate
	emitter   *events.Emitter
	logger    zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses repository.CourseRepository, templates repository.TemplateRepository, validate *validator.Validate, emitter *events.Emitter, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		templates: templates,
		validator: validate,
		emitter:   emitter,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.TemplateID != nil {
		if _, err := s.templates.GetByID(ctx, *payload.TemplateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrTemplateNotFound
			}
			return dto.CourseResponse{}, err
		}
	}

	course := models.Course{
		Name:             payload.Name,
		CourseTemplateID: payload.TemplateID,
		Active:           true,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}
	if payload.Active != nil {
		course.Active = *payload.Active
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

// SetTemplate rebinds the course's scaffold template. Existing assignments
// are deliberately untouched; the template only affects future creation.
func (s *courseService) SetTemplate(ctx context.Context, id uint, payload dto.CourseSetTemplateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.TemplateID != nil {
		if _, err := s.templates.GetByID(ctx, *payload.TemplateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrTemplateNotFound
			}
			return dto.CourseResponse{}, err
		}
	}

	if err := s.courses.SetTemplate(ctx, id, payload.TemplateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.emitter.Emit(ctx, events.SubjectCourseDeleted, map[string]interface{}{"course_id": id})
	s.logger.Info().Uint("course_id", id).Msg("course deleted with cascade")

	return nil
}
