package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	AssignmentID   *uint
	CollaboratorID *uint
	Status         *string
}

// SubmissionRepository defines data operations for submissions and their
// grading history.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uint) error
	CreateHistory(ctx context.Context, history *models.SubmissionGradeHistory) error
	ListForCourseStudent(ctx context.Context, courseID, studentID uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Assignment").
		Preload("Collaborators")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}

	if filter.CollaboratorID != nil {
		query = query.Joins("JOIN submission_collaborators sc ON sc.submission_id = submissions.id").
			Where("sc.user_id = ?", *filter.CollaboratorID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Create persists the submission row and its collaborator join rows in one
// transaction. A submission without collaborators is never written.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collaborators := submission.Collaborators
		if err := tx.Omit("Collaborators", "Assignment", "History").Create(submission).Error; err != nil {
			return err
		}

		if len(collaborators) > 0 {
			if err := tx.Model(submission).Association("Collaborators").Append(collaborators); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).
		Omit("Collaborators", "Assignment", "History").
		Save(submission).Error
}

// Delete removes the row plus its collaborator and history rows atomically.
func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM submission_collaborators WHERE submission_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).
			Delete(&models.SubmissionGradeHistory{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Submission{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *submissionRepository) CreateHistory(ctx context.Context, history *models.SubmissionGradeHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// ListForCourseStudent returns the student's submissions across all
// assignments of a course, used for gradebook aggregation.
func (r *submissionRepository) ListForCourseStudent(ctx context.Context, courseID, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Assignment").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN submission_collaborators sc ON sc.submission_id = submissions.id").
		Where("assignments.course_id = ?", courseID).
		Where("sc.user_id = ?", studentID).
		Order("submissions.submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
