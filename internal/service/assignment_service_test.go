package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

func newAssignmentFixture(t *testing.T) (AssignmentService, *models.Course, *models.CourseTemplate) {
	t.Helper()

	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())

	template := models.CourseTemplate{
		Name: "Scheme",
		Slots: []models.AssignmentTemplate{
			{Weight: 0.4, Type: models.AssignmentTypeHomework, SubmissionTypes: []string{"application/pdf"}, Position: 0},
			{Weight: 0.6, Type: models.AssignmentTypeExam, Position: 1},
		},
	}
	require.NoError(t, db.Create(&template).Error)

	course := models.Course{Name: "Compilers", CourseTemplateID: &template.ID}
	require.NoError(t, db.Create(&course).Error)

	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewTemplateRepository(db),
		validate,
		testLogger(),
	)

	return svc, &course, &template
}

func TestAssignmentServiceCreateCopiesSlotMetadata(t *testing.T) {
	svc, course, template := newAssignmentFixture(t)

	slot := template.Slots[0]
	created, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:           "Parser Homework",
		DueDate:        time.Now().Add(72 * time.Hour),
		MaxPoints:      100,
		TemplateSlotID: &slot.ID,
	})
	require.NoError(t, err)
	require.InDelta(t, 0.4, created.Weight, 0.001)
	require.Equal(t, "homework", created.Type)
	require.Equal(t, []string{"application/pdf"}, created.SubmissionTypes)
}

func TestAssignmentServiceCreateSlotOutsideTemplate(t *testing.T) {
	svc, course, template := newAssignmentFixture(t)

	unknownSlot := template.Slots[1].ID + 100
	_, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:           "Phantom",
		DueDate:        time.Now().Add(time.Hour),
		MaxPoints:      10,
		TemplateSlotID: &unknownSlot,
	})
	require.ErrorIs(t, err, ErrSlotNotInTemplate)
}

func TestAssignmentServiceCreateAdHocRequiresMetadata(t *testing.T) {
	svc, course, _ := newAssignmentFixture(t)

	_, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:      "No Metadata",
		DueDate:   time.Now().Add(time.Hour),
		MaxPoints: 10,
	})
	require.ErrorIs(t, err, ErrMissingGradingMetadata)

	weight := 0.25
	kind := "quiz"
	created, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:      "Pop Quiz",
		DueDate:   time.Now().Add(time.Hour),
		MaxPoints: 10,
		Weight:    &weight,
		Type:      &kind,
	})
	require.NoError(t, err)
	require.InDelta(t, 0.25, created.Weight, 0.001)
	require.Equal(t, "quiz", created.Type)
}

func TestAssignmentServiceGetScopedToCourse(t *testing.T) {
	svc, course, template := newAssignmentFixture(t)

	slot := template.Slots[1]
	created, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:           "Final Exam",
		DueDate:        time.Now().Add(time.Hour),
		MaxPoints:      100,
		TemplateSlotID: &slot.ID,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), course.ID+1, created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentServiceUpdateAndDelete(t *testing.T) {
	svc, course, template := newAssignmentFixture(t)

	slot := template.Slots[0]
	created, err := svc.Create(context.Background(), course.ID, dto.AssignmentCreateRequest{
		Name:           "Lexer Homework",
		DueDate:        time.Now().Add(time.Hour),
		MaxPoints:      50,
		TemplateSlotID: &slot.ID,
	})
	require.NoError(t, err)

	// Mutating the assignment never touches its template slot.
	newWeight := 0.9
	updated, err := svc.Update(context.Background(), course.ID, created.ID, dto.AssignmentUpdateRequest{Weight: &newWeight})
	require.NoError(t, err)
	require.InDelta(t, 0.9, updated.Weight, 0.001)

	require.NoError(t, svc.Delete(context.Background(), course.ID, created.ID))
	_, err = svc.Get(context.Background(), course.ID, created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
