package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// AttendanceHandler records course attendance.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the attendance handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("", h.mark)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.AttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "mark attendance")
	}

	resp, err := h.service.Mark(c.UserContext(), sess, payload)
	if err != nil {
		return respondError(c, h.logger, err, "mark attendance")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance recorded", resp)
}
