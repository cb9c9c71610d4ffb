package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

func TestTemplateServiceCreateAssignsPositions(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name: "Standard Course",
		Slots: []dto.SlotRequest{
			{Weight: 0.3, Type: "homework"},
			{Weight: 0.3, Type: "quiz"},
			{Weight: 0.4, Type: "exam", SubmissionTypes: []string{"application/pdf"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Slots, 3)
	require.InDelta(t, 1.0, created.TotalWeight, 0.001)
	for i, slot := range created.Slots {
		require.Equal(t, i, slot.Position)
	}
	require.Equal(t, []string{"application/pdf"}, created.Slots[2].SubmissionTypes)
}

func TestTemplateServiceCreateRejectsBadWeightSum(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	_, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name: "Broken Weights",
		Slots: []dto.SlotRequest{
			{Weight: 0.5, Type: "homework"},
			{Weight: 0.2, Type: "exam"},
		},
	})
	var weightErr *grading.WeightError
	require.ErrorAs(t, err, &weightErr)

	templates, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, templates)
}

func TestTemplateServiceUpdateReplacesSlots(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name: "Before",
		Slots: []dto.SlotRequest{
			{Weight: 0.5, Type: "homework"},
			{Weight: 0.5, Type: "exam"},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.TemplateUpdateRequest{
		Name: "After",
		Slots: []dto.SlotRequest{
			{Weight: 1.0, Type: "project"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Len(t, updated.Slots, 1)
	require.Equal(t, "project", updated.Slots[0].Type)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Slots, 1)
}

func TestTemplateServiceUpdateMissing(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	_, err := svc.Update(context.Background(), 99, dto.TemplateUpdateRequest{
		Name:  "Ghost",
		Slots: []dto.SlotRequest{{Weight: 1.0, Type: "exam"}},
	})
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateServiceDeleteRefusesWhenInUse(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name:  "Bound",
		Slots: []dto.SlotRequest{{Weight: 1.0, Type: "exam"}},
	})
	require.NoError(t, err)

	course := models.Course{Name: "Algebra", CourseTemplateID: &created.ID}
	require.NoError(t, db.Create(&course).Error)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, false), ErrTemplateInUse)

	require.NoError(t, svc.Delete(context.Background(), created.ID, true))

	var refreshed models.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	require.Nil(t, refreshed.CourseTemplateID)
}

func TestTemplateServiceImport(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	document := []byte(`{
		"name": "Imported Scheme",
		"slots": [
			{"weight": 0.4, "type": "homework"},
			{"weight": 0.6, "type": "exam", "submission_types": ["application/pdf"]}
		]
	}`)

	imported, err := svc.Import(context.Background(), document)
	require.NoError(t, err)
	require.Equal(t, "Imported Scheme", imported.Name)
	require.Len(t, imported.Slots, 2)
}

func TestTemplateServiceImportRejectsInvalidDocument(t *testing.T) {
	db := setupServiceDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(repository.NewTemplateRepository(db), validate, testLogger())

	cases := map[string][]byte{
		"weight above one": []byte(`{"name": "Bad", "slots": [{"weight": 1.5, "type": "exam"}]}`),
		"unknown type":     []byte(`{"name": "Bad", "slots": [{"weight": 1.0, "type": "lab"}]}`),
		"no slots":         []byte(`{"name": "Bad", "slots": []}`),
		"not json":         []byte(`name=Bad`),
	}

	for name, document := range cases {
		_, err := svc.Import(context.Background(), document)
		require.Error(t, err, name)
	}
}
