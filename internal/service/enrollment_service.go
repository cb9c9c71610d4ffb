package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrEnrollmentNotFound indicates no enrollment exists for the pair.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrAlreadyEnrolled indicates the user already has an enrollment in the
// course.
var ErrAlreadyEnrolled = errors.New("user already enrolled in course")

// ErrUserNotFound indicates the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// EnrollmentService manages user↔course membership with per-course roles.
type EnrollmentService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error)
	ListForUser(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error)
	Enroll(ctx context.Context, courseID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	Update(ctx context.Context, courseID, userID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error)
	Withdraw(ctx context.Context, courseID, userID uint) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) ListForUser(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrUserNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.enrollments.Get(ctx, payload.UserID, courseID); err == nil {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.UserCourse{
		UserID:   payload.UserID,
		CourseID: courseID,
		Status:   models.EnrollmentStatusActive,
		Role:     models.UserRole(payload.Role),
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("user_id", payload.UserID).Uint("course_id", courseID).Str("role", payload.Role).Msg("user enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

// Update changes the status of an existing enrollment, and the role when the
// payload carries one. Existing submissions are untouched.
func (s *enrollmentService) Update(ctx context.Context, courseID, userID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.enrollments.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment.Status = models.EnrollmentStatus(payload.Status)
	if payload.Role != "" {
		enrollment.Role = models.UserRole(payload.Role)
	}

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Uint("course_id", courseID).Str("status", payload.Status).Msg("enrollment updated")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, courseID, userID uint) error {
	if err := s.enrollments.Delete(ctx, userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", userID).Uint("course_id", courseID).Msg("user withdrawn")

	return nil
}
