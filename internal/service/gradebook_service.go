package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// GradebookService computes weighted standings for a student in a course and
// type-grouped assignment reports.
type GradebookService interface {
	Gradebook(ctx context.Context, courseID, studentID uint) (dto.GradebookResponse, error)
	ByType(ctx context.Context, courseID uint) ([]dto.TypeGroupResponse, error)
}

type gradebookService struct {
	courses     repository.CourseRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewGradebookService builds the gradebook aggregator. cache may be nil.
func NewGradebookService(courses repository.CourseRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		courses:     courses,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "gradebook_service").Logger(),
	}
}

func gradebookCacheKey(courseID, studentID uint) string {
	return fmt.Sprintf("gradebook:course:%d:student:%d", courseID, studentID)
}

// Gradebook builds the student's weighted standing. Assignments without a
// graded submission contribute zero: the average reflects all assigned work.
func (s *gradebookService) Gradebook(ctx context.Context, courseID, studentID uint) (dto.GradebookResponse, error) {
	cacheKey := gradebookCacheKey(courseID, studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.GradebookResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.GradebookCacheHits().Inc()
				s.logger.Debug().Str("key", cacheKey).Msg("gradebook cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read gradebook cache")
		}
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradebookResponse{}, ErrCourseNotFound
		}
		return dto.GradebookResponse{}, err
	}

	submissions, err := s.submissions.ListForCourseStudent(ctx, courseID, studentID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	response, err := s.buildResponse(course, studentID, submissions)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store gradebook cache")
			}
		}
	}

	return response, nil
}

func (s *gradebookService) buildResponse(course models.Course, studentID uint, submissions []models.Submission) (dto.GradebookResponse, error) {
	// Latest submission per assignment wins; the repository returns newest
	// first.
	submissionByAssignment := map[uint]models.Submission{}
	for _, submission := range submissions {
		if _, exists := submissionByAssignment[submission.AssignmentID]; !exists {
			submissionByAssignment[submission.AssignmentID] = submission
		}
	}

	earned := make(map[uint]float64, len(submissionByAssignment))
	for id, submission := range submissionByAssignment {
		if submission.IsGraded() {
			earned[id] = submission.PointsEarned
		}
	}

	entries := make([]dto.GradebookEntry, 0, len(course.Assignments))
	for _, assignment := range course.Assignments {
		points := earned[assignment.ID]
		contribution, err := grading.Contribution(assignment, points)
		if err != nil {
			return dto.GradebookResponse{}, err
		}

		entry := dto.GradebookEntry{
			AssignmentID:   assignment.ID,
			AssignmentName: assignment.Name,
			Type:           string(assignment.Type),
			Weight:         assignment.Weight,
			MaxPoints:      assignment.MaxPoints,
			PointsEarned:   points,
			Contribution:   contribution,
		}

		if submission, ok := submissionByAssignment[assignment.ID]; ok {
			entry.Submitted = true
			if submission.IsPublished() {
				grade := submission.Grade
				entry.Grade = &grade
			}
		}

		entries = append(entries, entry)
	}

	average, err := grading.FinalAverage(course.Assignments, earned)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	return dto.GradebookResponse{
		CourseID:     course.ID,
		CourseName:   course.Name,
		StudentID:    studentID,
		FinalAverage: average,
		Entries:      entries,
	}, nil
}

// ByType groups the course's assignments by their explicit type tag.
func (s *gradebookService) ByType(ctx context.Context, courseID uint) ([]dto.TypeGroupResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	return dto.NewTypeGroupResponses(grading.ByType(course.Assignments)), nil
}
