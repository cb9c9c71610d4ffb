package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CourseTemplate{},
		&models.AssignmentTemplate{},
		&models.Course{},
		&models.Assignment{},
		&models.Submission{},
		&models.SubmissionGradeHistory{},
		&models.UserCourse{},
	))
	return db
}

func TestTemplateRepositoryCreateBackfillsSlotIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	template := models.CourseTemplate{
		Name: "Standard CS Course",
		Slots: []models.AssignmentTemplate{
			{Weight: 0.3, Type: models.AssignmentTypeHomework, SubmissionTypes: []string{"application/pdf"}},
			{Weight: 0.3, Type: models.AssignmentTypeQuiz},
			{Weight: 0.4, Type: models.AssignmentTypeExam},
		},
	}

	require.NoError(t, repo.Create(context.Background(), &template))
	require.NotZero(t, template.ID)
	for i, slot := range template.Slots {
		require.NotZero(t, slot.ID, "slot %d id not backfilled", i)
		require.Equal(t, template.ID, slot.CourseTemplateID)
		require.Equal(t, i, slot.Position)
	}

	stored, err := repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	require.Len(t, stored.Slots, 3)
	require.Equal(t, models.AssignmentTypeHomework, stored.Slots[0].Type)
}

func TestTemplateRepositoryCreateRollsBackOnChildFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	existing := models.CourseTemplate{
		Name:  "Existing",
		Slots: []models.AssignmentTemplate{{Weight: 1.0, Type: models.AssignmentTypeProject}},
	}
	require.NoError(t, repo.Create(context.Background(), &existing))

	// The third slot collides with an existing primary key, so the batch
	// insert fails partway. Parent and earlier children must be rolled back.
	broken := models.CourseTemplate{
		Name: "Broken",
		Slots: []models.AssignmentTemplate{
			{Weight: 0.4, Type: models.AssignmentTypeHomework},
			{Weight: 0.3, Type: models.AssignmentTypeQuiz},
			{ID: existing.Slots[0].ID, Weight: 0.3, Type: models.AssignmentTypeExam},
		},
	}

	err := repo.Create(context.Background(), &broken)
	require.Error(t, err)

	_, err = repo.GetByID(context.Background(), broken.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphans int64
	require.NoError(t, db.Model(&models.AssignmentTemplate{}).
		Where("course_template_id = ?", broken.ID).
		Count(&orphans).Error)
	require.Zero(t, orphans)
}

func TestTemplateRepositoryUpdateReplacesChildSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	template := models.CourseTemplate{
		Name: "Before",
		Slots: []models.AssignmentTemplate{
			{Weight: 0.5, Type: models.AssignmentTypeHomework},
			{Weight: 0.5, Type: models.AssignmentTypeExam},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &template))
	oldSlotIDs := []uint{template.Slots[0].ID, template.Slots[1].ID}

	template.Name = "After"
	template.Slots = []models.AssignmentTemplate{
		{Weight: 0.2, Type: models.AssignmentTypeQuiz},
		{Weight: 0.3, Type: models.AssignmentTypeHomework},
		{Weight: 0.5, Type: models.AssignmentTypeProject},
	}
	require.NoError(t, repo.Update(context.Background(), &template))

	stored, err := repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	require.Equal(t, "After", stored.Name)
	require.Len(t, stored.Slots, 3)
	require.Equal(t, models.AssignmentTypeQuiz, stored.Slots[0].Type)

	var survivors int64
	require.NoError(t, db.Model(&models.AssignmentTemplate{}).
		Where("id IN ?", oldSlotIDs).
		Count(&survivors).Error)
	require.Zero(t, survivors, "old slots must not survive an update")
}

func TestTemplateRepositoryUpdateMissingTemplate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	missing := models.CourseTemplate{ID: 999, Name: "Ghost"}
	err := repo.Update(context.Background(), &missing)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemplateRepositoryDeleteRefusesWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	template := models.CourseTemplate{
		Name:  "Referenced",
		Slots: []models.AssignmentTemplate{{Weight: 1.0, Type: models.AssignmentTypeExam}},
	}
	require.NoError(t, repo.Create(context.Background(), &template))

	course := models.Course{Name: "Algorithms", CourseTemplateID: &template.ID, Active: true}
	require.NoError(t, db.Create(&course).Error)

	err := repo.Delete(context.Background(), template.ID, false)
	require.ErrorIs(t, err, ErrTemplateInUse)

	_, err = repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
}

func TestTemplateRepositoryDeleteDetachesCourses(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	template := models.CourseTemplate{
		Name:  "Detachable",
		Slots: []models.AssignmentTemplate{{Weight: 1.0, Type: models.AssignmentTypeExam}},
	}
	require.NoError(t, repo.Create(context.Background(), &template))

	course := models.Course{Name: "Databases", CourseTemplateID: &template.ID, Active: true}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, repo.Delete(context.Background(), template.ID, true))

	var detached models.Course
	require.NoError(t, db.First(&detached, course.ID).Error)
	require.Nil(t, detached.CourseTemplateID, "course must not keep a dangling template reference")

	_, err := repo.GetByID(context.Background(), template.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
