package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/events"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNoCollaborators indicates a submission was attempted without any
// credited student.
var ErrNoCollaborators = errors.New("submission requires at least one collaborator")

// ErrNotGraded indicates publish was requested before any points were earned.
var ErrNotGraded = errors.New("submission has not been graded")

// ErrSubmissionTypeNotAllowed indicates the uploaded file's type is not in
// the assignment's accepted set.
var ErrSubmissionTypeNotAllowed = errors.New("file type not accepted for this assignment")

// defaultSubmissionTypes applies when an assignment does not restrict
// formats.
var defaultSubmissionTypes = []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain"}

// SubmissionService drives a submission through its lifecycle:
// submit → grade (repeatable) → publish, or delete.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, id uint, payload dto.GradeRequest, graderID uint) (dto.SubmissionResponse, error)
	Publish(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	storage     FileStorage
	cache       *redis.Client
	emitter     *events.Emitter
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. cache and
// emitter may be nil when those backends are disabled.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, users repository.UserRepository, validate *validator.Validate, storage FileStorage, cache *redis.Client, emitter *events.Emitter, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		users:       users,
		validator:   validate,
		storage:     storage,
		cache:       cache,
		emitter:     emitter,
		sanitizer:   bluemonday.StrictPolicy(),
		tracer:      otel.Tracer("github.com/noah-isme/gradebook-go-api/internal/service/submission"),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		AssignmentID:   filter.AssignmentID,
		CollaboratorID: filter.CollaboratorID,
		Status:         filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Submit uploads the file and creates the submission. Status is late when the
// deadline has passed, ungraded otherwise; the grade starts at the
// unpublished sentinel.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if len(payload.CollaboratorIDs) == 0 {
		return dto.SubmissionResponse{}, ErrNoCollaborators
	}
	if file == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("submission file is required")
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	collaborators, err := s.users.ListByIDs(ctx, payload.CollaboratorIDs)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if len(collaborators) != len(payload.CollaboratorIDs) {
		return dto.SubmissionResponse{}, fmt.Errorf("one or more collaborators do not exist")
	}

	if err := s.validateFileType(file, assignment.SubmissionTypes); err != nil {
		return dto.SubmissionResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	fileURL, err := s.storage.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to upload file: %w", err)
	}

	submittedAt := s.now()
	status := models.SubmissionStatusUngraded
	if assignment.IsPastDue(submittedAt) {
		status = models.SubmissionStatusLate
	}

	submission := models.Submission{
		AssignmentID:  assignment.ID,
		FileURL:       fileURL,
		SubmittedAt:   submittedAt,
		Grade:         models.UnpublishedGrade,
		Status:        status,
		Collaborators: collaborators,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsReceived().WithLabelValues(status).Inc()
	s.emitter.Emit(ctx, events.SubjectSubmissionReceived, map[string]interface{}{
		"submission_id": created.ID,
		"assignment_id": created.AssignmentID,
		"status":        created.Status,
	})
	s.logger.Info().Uint("submission_id", created.ID).Str("status", created.Status).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// Grade records earned points. Re-grading an already graded submission is
// permitted and overwrites points and grader; identical repeat calls from the
// same grader short-circuit without touching the store.
func (s *submissionService) Grade(ctx context.Context, id uint, payload dto.GradeRequest, graderID uint) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(id)),
		attribute.Int64("submission.grader_id", int64(graderID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if err := grading.ValidatePoints(payload.PointsEarned, submission.Assignment.MaxPoints); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "points_out_of_range")
		return dto.SubmissionResponse{}, err
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	alreadyIdentical := submission.IsGraded() &&
		math.Abs(submission.PointsEarned-payload.PointsEarned) < 1e-9 &&
		strings.TrimSpace(submission.Feedback) == feedback &&
		submission.GraderID != nil && *submission.GraderID == graderID
	if alreadyIdentical {
		span.SetAttributes(attribute.Bool("submission.idempotent", true))
		return dto.NewSubmissionResponse(submission), nil
	}

	gradedAt := s.now()
	submission.PointsEarned = payload.PointsEarned
	submission.Feedback = feedback
	submission.Status = models.SubmissionStatusGraded
	submission.GraderID = &graderID
	submission.GradedAt = &gradedAt

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	history := models.SubmissionGradeHistory{
		SubmissionID: submission.ID,
		PointsEarned: payload.PointsEarned,
		Feedback:     feedback,
		GradedBy:     graderID,
		GradedAt:     gradedAt,
	}
	if err := s.submissions.CreateHistory(ctx, &history); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist grading history")
		span.RecordError(err)
	}

	observability.SubmissionsGraded().Inc()
	s.emitter.Emit(ctx, events.SubjectSubmissionGraded, map[string]interface{}{
		"submission_id": submission.ID,
		"assignment_id": submission.AssignmentID,
		"points_earned": payload.PointsEarned,
		"graded_by":     graderID,
	})

	span.SetAttributes(attribute.Float64("submission.points_earned", payload.PointsEarned))

	return dto.NewSubmissionResponse(submission), nil
}

// Publish converts earned points into a visible percentage grade. Only graded
// submissions can be published; publishing again simply recomputes.
func (s *submissionService) Publish(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !submission.IsGraded() {
		return dto.SubmissionResponse{}, ErrNotGraded
	}

	submission.Grade = grading.Percentage(submission.PointsEarned, submission.Assignment.MaxPoints)

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.invalidateGradebooks(ctx, submission)

	observability.SubmissionsPublished().Inc()
	s.emitter.Emit(ctx, events.SubjectSubmissionPublished, map[string]interface{}{
		"submission_id": submission.ID,
		"assignment_id": submission.AssignmentID,
		"grade":         submission.Grade,
	})
	s.logger.Info().Uint("submission_id", submission.ID).Float64("grade", submission.Grade).Msg("grade published")

	return dto.NewSubmissionResponse(submission), nil
}

// Delete removes the persisted row and its file. A failed file deletion is
// reported but never blocks the row delete, so a broken store cannot wedge
// re-uploads behind an orphaned row.
func (s *submissionService) Delete(ctx context.Context, id uint) error {
	submission, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if submission.FileURL != "" {
		if err := s.storage.Delete(ctx, submission.FileURL); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", id).Str("file_url", submission.FileURL).Msg("failed to delete submission file")
		}
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	s.logger.Info().Uint("submission_id", id).Msg("submission deleted")

	return nil
}

func (s *submissionService) load(ctx context.Context, id uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	return submission, nil
}

func (s *submissionService) validateFileType(file *multipart.FileHeader, allowed []string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	accepted := allowed
	if len(accepted) == 0 {
		accepted = defaultSubmissionTypes
	}

	for _, a := range accepted {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrSubmissionTypeNotAllowed, mime.String())
}

// invalidateGradebooks drops the cached gradebook of every collaborator so
// the next read reflects the newly published grade.
func (s *submissionService) invalidateGradebooks(ctx context.Context, submission models.Submission) {
	if s.cache == nil {
		return
	}

	courseID := submission.Assignment.CourseID
	for _, collaborator := range submission.Collaborators {
		key := gradebookCacheKey(courseID, collaborator.ID)
		if err := s.cache.Del(ctx, key).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate gradebook cache")
		}
	}
}
