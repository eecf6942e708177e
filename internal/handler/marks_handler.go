package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// MarksHandler uploads student marks.
type MarksHandler struct {
	service service.MarksService
	logger  zerolog.Logger
}

// NewMarksHandler constructs the marks handler.
func NewMarksHandler(service service.MarksService, logger zerolog.Logger) *MarksHandler {
	return &MarksHandler{
		service: service,
		logger:  logger.With().Str("component", "marks_handler").Logger(),
	}
}

// Register attaches routes. limiter throttles file imports.
func (h *MarksHandler) Register(router fiber.Router, limiter fiber.Handler) {
	router.Post("", h.submit)
	router.Post("/preview", h.preview)
	router.Post("/import", limiter, h.importFile)
}

func (h *MarksHandler) submit(c *fiber.Ctx) error {
	var payload dto.MarksSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "submit marks")
	}

	resp, err := h.service.Submit(c.UserContext(), sess, payload)
	if err != nil {
		return respondError(c, h.logger, err, "submit marks")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "marks submitted", resp)
}

func (h *MarksHandler) preview(c *fiber.Ctx) error {
	var payload dto.MarksSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	previews := h.service.Preview(payload)
	return utils.OK(c, previews, "marks previewed", fiber.Map{"rows": len(previews)})
}

func (h *MarksHandler) importFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "import marks")
	}

	resp, err := h.service.ImportCSV(c.UserContext(), sess, file)
	if err != nil {
		return respondError(c, h.logger, err, "import marks")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "marks imported", resp)
}
