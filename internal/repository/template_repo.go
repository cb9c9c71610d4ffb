package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// ErrTemplateInUse indicates the template is still referenced by at least one
// course and the caller did not opt into detaching them.
var ErrTemplateInUse = errors.New("template is referenced by existing courses")

// TemplateRepository persists course templates together with their slots.
// Create and Update are atomic over the parent row and the whole child set.
type TemplateRepository interface {
	List(ctx context.Context) ([]models.CourseTemplate, error)
	GetByID(ctx context.Context, id uint) (models.CourseTemplate, error)
	Create(ctx context.Context, template *models.CourseTemplate) error
	Update(ctx context.Context, template *models.CourseTemplate) error
	Delete(ctx context.Context, id uint, detachCourses bool) error
	CountCourses(ctx context.Context, templateID uint) (int64, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository instantiates a GORM-backed repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) List(ctx context.Context) ([]models.CourseTemplate, error) {
	var templates []models.CourseTemplate
	if err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (models.CourseTemplate, error) {
	var template models.CourseTemplate
	if err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&template, id).Error; err != nil {
		return models.CourseTemplate{}, err
	}

	return template, nil
}

// Create inserts the parent row and batch-inserts every slot with the
// generated parent id inside one transaction. GORM back-fills the generated
// slot ids in insertion order. Any failure rolls back the whole hierarchy.
func (r *templateRepository) Create(ctx context.Context, template *models.CourseTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Slots").Create(template).Error; err != nil {
			return err
		}

		for i := range template.Slots {
			template.Slots[i].CourseTemplateID = template.ID
			template.Slots[i].Position = i
		}

		if len(template.Slots) > 0 {
			if err := tx.Create(&template.Slots).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Update replaces the child set wholesale: the parent row is saved, all
// existing slots are deleted and the new set re-inserted in the same
// transaction. Slots have no identity worth preserving across an edit.
func (r *templateRepository) Update(ctx context.Context, template *models.CourseTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CourseTemplate{}).
			Where("id = ?", template.ID).
			Update("name", template.Name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("course_template_id = ?", template.ID).
			Delete(&models.AssignmentTemplate{}).Error; err != nil {
			return err
		}

		for i := range template.Slots {
			template.Slots[i].ID = 0
			template.Slots[i].CourseTemplateID = template.ID
			template.Slots[i].Position = i
		}

		if len(template.Slots) > 0 {
			if err := tx.Create(&template.Slots).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the template and its slots. When courses still reference the
// template it fails with ErrTemplateInUse unless detachCourses is set, in
// which case the references are nulled out in the same transaction so no
// dangling course_template_id survives.
func (r *templateRepository) Delete(ctx context.Context, id uint, detachCourses bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&models.Course{}).
			Where("course_template_id = ?", id).
			Count(&referencing).Error; err != nil {
			return err
		}

		if referencing > 0 {
			if !detachCourses {
				return ErrTemplateInUse
			}
			if err := tx.Model(&models.Course{}).
				Where("course_template_id = ?", id).
				Update("course_template_id", nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_template_id = ?", id).
			Delete(&models.AssignmentTemplate{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.CourseTemplate{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *templateRepository) CountCourses(ctx context.Context, templateID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("course_template_id = ?", templateID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
