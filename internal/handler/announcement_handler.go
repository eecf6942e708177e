package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// AnnouncementHandler exposes the announcement feed.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the announcement handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Register attaches routes. Posting and deleting are limited to staff.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", middleware.RequireRole(middleware.AuthRoleTeacher, middleware.AuthRoleAdmin), h.create)
	router.Delete("/:id", middleware.RequireRole(middleware.AuthRoleTeacher, middleware.AuthRoleAdmin), h.delete)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "list announcements")
	}

	resp, err := h.service.List(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.logger, err, "list announcements")
	}

	return utils.OK(c, resp.Items, "announcements retrieved", fiber.Map{"count": len(resp.Items)})
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "post announcement")
	}

	announcement, err := h.service.Post(c.UserContext(), sess, payload)
	if err != nil {
		return respondError(c, h.logger, err, "post announcement")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement posted", announcement)
}

func (h *AnnouncementHandler) delete(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "delete announcement")
	}

	result, err := h.service.Delete(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		if result.State != "" {
			// the list is restored; callers render it alongside the error
			return utils.Fail(c, fiber.StatusBadGateway, "announcement deletion reverted", result)
		}
		return respondError(c, h.logger, err, "delete announcement")
	}

	return utils.SendSuccess(c, "announcement deleted", result)
}
