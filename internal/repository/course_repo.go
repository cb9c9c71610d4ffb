package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	Active     *bool
	TemplateID *uint
}

// CourseRepository defines persistence operations for courses. Delete is a
// cascading removal of the whole aggregate.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetTemplate(ctx context.Context, courseID uint, templateID *uint) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.TemplateID != nil {
		query = query.Where("course_template_id = ?", *filter.TemplateID)
	}

	var courses []models.Course
	if err := query.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC") }).
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"name":   course.Name,
			"active": course.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetTemplate rebinds (or clears) the scaffold template. Existing assignments
// are deliberately left untouched.
func (r *courseRepository) SetTemplate(ctx context.Context, courseID uint, templateID *uint) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("course_template_id", templateID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the course and everything hanging off it in one transaction:
// collaborator join rows, grade history, submissions, assignments and
// enrollments. A crash can never leave orphaned child rows.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&models.Assignment{}).
			Where("course_id = ?", id).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}

		if len(assignmentIDs) > 0 {
			var submissionIDs []uint
			if err := tx.Model(&models.Submission{}).
				Where("assignment_id IN ?", assignmentIDs).
				Pluck("id", &submissionIDs).Error; err != nil {
				return err
			}

			if len(submissionIDs) > 0 {
				if err := tx.Exec("DELETE FROM submission_collaborators WHERE submission_id IN ?", submissionIDs).Error; err != nil {
					return err
				}
				if err := tx.Where("submission_id IN ?", submissionIDs).
					Delete(&models.SubmissionGradeHistory{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", submissionIDs).
					Delete(&models.Submission{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("course_id = ?", id).
				Delete(&models.Assignment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).
			Delete(&models.UserCourse{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
