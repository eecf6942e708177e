package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/service"
)

type stubActivityService struct {
	listErr error
	last    dto.ActivityListRequest
}

func (s *stubActivityService) Record(context.Context, service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, nil
}

func (s *stubActivityService) List(_ context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	s.last = req
	if s.listErr != nil {
		return dto.ActivityListResponse{}, s.listErr
	}
	return dto.ActivityListResponse{
		Items:      []dto.ActivityResponse{{ID: 1, Action: "teacher.deleted", Outcome: "reverted"}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 20, TotalItems: 1, TotalPages: 1},
	}, nil
}

func activityApp(svc service.ActivityService, logger zerolog.Logger) *fiber.App {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	handler.NewActivityHandler(svc, logger).Register(app.Group("/admin/activity", withSession("admin", "1")))
	return app
}

func TestActivityHandlerFiltersByOutcome(t *testing.T) {
	svc := &stubActivityService{}
	app := activityApp(svc, quietLogger())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/activity?outcome=reverted&entity_id=t-2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "reverted", svc.last.Outcome)
	require.Equal(t, "t-2", svc.last.EntityID)
}

func TestActivityHandlerRejectsUnknownOutcome(t *testing.T) {
	app := activityApp(&stubActivityService{}, quietLogger())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/activity?outcome=maybe", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestActivityHandlerLogsStoreFailure(t *testing.T) {
	var buf bytes.Buffer
	app := activityApp(&stubActivityService{listErr: errors.New("connection reset")}, zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/admin/activity", nil)
	req.Header.Set(middleware.HeaderCorrelationID, "corr-audit")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	require.False(t, body.Success)
	require.Contains(t, buf.String(), `"correlation_id":"corr-audit"`)
	require.Contains(t, buf.String(), "connection reset")
}
