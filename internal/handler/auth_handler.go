package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/session"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// AuthHandler signs users in and out of the portal.
type AuthHandler struct {
	service service.AuthService
	cookies session.CookieOptions
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(service service.AuthService, cookies session.CookieOptions, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
		now:     time.Now,
	}
}

// Register attaches routes. guard protects the session lookup; limiter
// throttles login attempts.
func (h *AuthHandler) Register(router fiber.Router, guard, limiter fiber.Handler) {
	router.Post("/login", limiter, h.login)
	router.Post("/logout", h.logout)
	router.Get("/session", guard, h.current)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "sign in")
	}

	session.Write(c, sess, h.cookies, h.now())
	session.Bind(c, sess)
	return utils.SendSuccess(c, "signed in", h.describe(sess))
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	session.Clear(c)
	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) current(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "load session")
	}
	return utils.SendSuccess(c, "session active", h.describe(sess))
}

func (h *AuthHandler) describe(sess session.Session) dto.SessionResponse {
	response := dto.SessionResponse{Role: sess.Role, UserID: sess.UserID}
	if exp, ok := session.TokenExpiry(sess.Token); ok {
		response.ExpiresAt = &exp
	}
	return response
}
