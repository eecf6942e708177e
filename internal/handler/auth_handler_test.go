package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/session"
)

type mockAuthService struct {
	sess session.Session
	err  error
	last dto.LoginRequest
}

func (m *mockAuthService) Login(_ context.Context, payload dto.LoginRequest) (session.Session, error) {
	m.last = payload
	return m.sess, m.err
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": exp.Unix()}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func authApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, session.CookieOptions{DefaultTTL: time.Hour}, quietLogger()).
		Register(app.Group("/api/v1/auth"), middleware.Session(middleware.SessionOptions{}), passThrough)
	return app
}

func TestAuthHandlerLoginWritesCookies(t *testing.T) {
	token := signedToken(t, time.Now().Add(2*time.Hour))
	svc := &mockAuthService{sess: session.Session{Token: token, Role: "teacher", UserID: "7"}}
	app := authApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ada@uni.edu","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "ada@uni.edu", svc.last.Email)

	cookies := map[string]*http.Cookie{}
	for _, cookie := range resp.Cookies() {
		cookies[cookie.Name] = cookie
	}
	require.Equal(t, token, cookies[session.TokenCookie].Value)
	require.True(t, cookies[session.TokenCookie].HttpOnly)
	require.Equal(t, "teacher", cookies[session.RoleCookie].Value)
	require.Equal(t, "7", cookies[session.UserIDCookie].Value)

	body := decodeEnvelope(t, resp)
	require.True(t, body.Success)
	require.NotContains(t, string(body.Data), token)
	require.Contains(t, string(body.Data), `"expires_at"`)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	app := authApp(&mockAuthService{err: &backend.APIError{Status: 401, Message: "invalid credentials"}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ada@uni.edu","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, resp.Cookies())
}

func TestAuthHandlerLoginInvalidPayload(t *testing.T) {
	app := authApp(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerSession(t *testing.T) {
	app := authApp(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: signedToken(t, time.Now().Add(time.Hour))})
	req.AddCookie(&http.Cookie{Name: session.RoleCookie, Value: "student"})
	req.AddCookie(&http.Cookie{Name: session.UserIDCookie, Value: "42"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SessionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "student", body.Data.Role)
	require.Equal(t, "42", body.Data.UserID)
}

func TestAuthHandlerLogoutClearsCookies(t *testing.T) {
	app := authApp(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cleared := map[string]bool{}
	for _, cookie := range resp.Cookies() {
		if cookie.Value == "" {
			cleared[cookie.Name] = true
		}
	}
	require.True(t, cleared[session.TokenCookie])
	require.True(t, cleared[session.RoleCookie])
	require.True(t, cleared[session.UserIDCookie])
}
