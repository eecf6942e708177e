package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/session"
)

type mockAnnouncementService struct {
	items     []dto.AnnouncementResponse
	postErr   error
	deleteRes dto.ChangeResult[dto.AnnouncementResponse]
	deleteErr error
	lastSess  session.Session
}

func (m *mockAnnouncementService) List(_ context.Context, sess session.Session) (dto.AnnouncementListResponse, error) {
	m.lastSess = sess
	return dto.AnnouncementListResponse{Items: m.items}, nil
}

func (m *mockAnnouncementService) Post(_ context.Context, sess session.Session, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	m.lastSess = sess
	if m.postErr != nil {
		return dto.AnnouncementResponse{}, m.postErr
	}
	return dto.AnnouncementResponse{ID: "9", Title: payload.Title, Content: payload.Content, CreatedAt: time.Now()}, nil
}

func (m *mockAnnouncementService) Delete(_ context.Context, sess session.Session, id string) (dto.ChangeResult[dto.AnnouncementResponse], error) {
	m.lastSess = sess
	return m.deleteRes, m.deleteErr
}

func announcementApp(svc service.AnnouncementService, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/announcements", withSession(role, "7"))
	handler.NewAnnouncementHandler(svc, quietLogger()).Register(group)
	return app
}

func TestAnnouncementHandlerList(t *testing.T) {
	svc := &mockAnnouncementService{items: []dto.AnnouncementResponse{{ID: "1", Title: "Exam week"}}}
	app := announcementApp(svc, session.RoleStudent)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/announcements", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []dto.AnnouncementResponse `json:"data"`
		Meta map[string]interface{}     `json:"meta"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.EqualValues(t, 1, body.Meta["count"])
	require.Equal(t, "student-token", svc.lastSess.Token)
}

func TestAnnouncementHandlerPostRequiresStaff(t *testing.T) {
	app := announcementApp(&mockAnnouncementService{}, session.RoleStudent)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/announcements", strings.NewReader(`{"title":"Hello","content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAnnouncementHandlerPostValidation(t *testing.T) {
	type form struct {
		Title string `validate:"required"`
	}
	validationErr := validator.New().Struct(form{})
	app := announcementApp(&mockAnnouncementService{postErr: validationErr}, session.RoleTeacher)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/announcements", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	require.False(t, body.Success)
	require.JSONEq(t, `{"Title":"required"}`, string(body.Details))
}

func TestAnnouncementHandlerPostCreated(t *testing.T) {
	app := announcementApp(&mockAnnouncementService{}, session.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/announcements", strings.NewReader(`{"title":"Hello","content":"<p>x</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAnnouncementHandlerDeleteReverted(t *testing.T) {
	svc := &mockAnnouncementService{
		deleteRes: dto.ChangeResult[dto.AnnouncementResponse]{
			ID:    "1",
			State: "reverted",
			Items: []dto.AnnouncementResponse{{ID: "1"}, {ID: "2"}},
		},
		deleteErr: &backend.APIError{Status: 500},
	}
	app := announcementApp(svc, session.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/announcements/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body struct {
		Details dto.ChangeResult[dto.AnnouncementResponse] `json:"details"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "reverted", body.Details.State)
	require.Len(t, body.Details.Items, 2)
}

func TestAnnouncementHandlerDeleteNotFound(t *testing.T) {
	app := announcementApp(&mockAnnouncementService{deleteErr: service.ErrAnnouncementNotFound}, session.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/announcements/404", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
