package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// EnrollmentRepository manages the user↔course join rows.
type EnrollmentRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.UserCourse, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserCourse, error)
	Get(ctx context.Context, userID, courseID uint) (models.UserCourse, error)
	Create(ctx context.Context, enrollment *models.UserCourse) error
	Update(ctx context.Context, enrollment *models.UserCourse) error
	Delete(ctx context.Context, userID, courseID uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.UserCourse, error) {
	var enrollments []models.UserCourse
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserCourse, error) {
	var enrollments []models.UserCourse
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) Get(ctx context.Context, userID, courseID uint) (models.UserCourse, error) {
	var enrollment models.UserCourse
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return models.UserCourse{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.UserCourse) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.UserCourse) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, userID, courseID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.UserCourse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
