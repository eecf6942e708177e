package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// StudentHandler manages student administration routes.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "list students")
	}

	students, err := h.service.List(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.logger, err, "list students")
	}

	return utils.OK(c, students, "students retrieved", fiber.Map{"count": len(students)})
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "create student")
	}

	student, err := h.service.Create(c.UserContext(), sess, payload)
	if err != nil {
		return respondError(c, h.logger, err, "create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}
