package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/service"
)

type stubTemplateService struct {
	getErr    error
	createErr error
	deleteErr error
}

func (s *stubTemplateService) List(context.Context) ([]dto.TemplateResponse, error) {
	return nil, nil
}

func (s *stubTemplateService) Get(context.Context, uint) (dto.TemplateResponse, error) {
	return dto.TemplateResponse{}, s.getErr
}

func (s *stubTemplateService) Create(context.Context, dto.TemplateCreateRequest) (dto.TemplateResponse, error) {
	return dto.TemplateResponse{}, s.createErr
}

func (s *stubTemplateService) Update(context.Context, uint, dto.TemplateUpdateRequest) (dto.TemplateResponse, error) {
	return dto.TemplateResponse{}, nil
}

func (s *stubTemplateService) Delete(context.Context, uint, bool) error {
	return s.deleteErr
}

func (s *stubTemplateService) Import(context.Context, []byte) (dto.TemplateResponse, error) {
	return dto.TemplateResponse{}, nil
}

func newTemplateApp(stub *stubTemplateService) *fiber.App {
	app := fiber.New()
	h := NewTemplateHandler(stub, zerolog.Nop())
	h.Register(app.Group("/templates"))
	return app
}

func TestTemplateHandlerMapsNotFound(t *testing.T) {
	app := newTemplateApp(&stubTemplateService{getErr: service.ErrTemplateNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/templates/5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTemplateHandlerMapsConflict(t *testing.T) {
	app := newTemplateApp(&stubTemplateService{deleteErr: service.ErrTemplateInUse})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/templates/5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestTemplateHandlerMapsWeightViolation(t *testing.T) {
	app := newTemplateApp(&stubTemplateService{
		createErr: &grading.WeightError{Kind: grading.WeightNotNormalized, Sum: 0.7},
	})

	body := strings.NewReader(`{"name":"X","slots":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/templates", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTemplateHandlerRejectsBadID(t *testing.T) {
	app := newTemplateApp(&stubTemplateService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/templates/not-a-number", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
