package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// ResultHandler serves computed result sheets.
type ResultHandler struct {
	service service.ResultService
	logger  zerolog.Logger
}

// NewResultHandler constructs the result handler.
func NewResultHandler(service service.ResultService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// Own returns the signed-in student's results.
func (h *ResultHandler) Own(c *fiber.Ctx) error {
	return h.respond(c, "")
}

// ForStudent returns the results of the student named in the path.
func (h *ResultHandler) ForStudent(c *fiber.Ctx) error {
	return h.respond(c, c.Params("id"))
}

func (h *ResultHandler) respond(c *fiber.Ctx, studentID string) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "load results")
	}

	results, err := h.service.StudentResults(c.UserContext(), sess, studentID)
	if err != nil {
		return respondError(c, h.logger, err, "load results")
	}

	return utils.SendSuccess(c, "results computed", results)
}
