package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// TeacherHandler manages the teacher roster and course assignment.
type TeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewTeacherHandler constructs the teacher handler.
func NewTeacherHandler(service service.TeacherService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches roster routes.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Delete("/:id", h.delete)
}

// Assign attaches a teacher to the course named in the path.
func (h *TeacherHandler) Assign(c *fiber.Ctx) error {
	var payload dto.AssignTeacherRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "assign teacher")
	}

	if err := h.service.Assign(c.UserContext(), sess, c.Params("id"), payload); err != nil {
		return respondError(c, h.logger, err, "assign teacher")
	}

	return utils.SendSuccess(c, "teacher assigned", fiber.Map{"course_id": c.Params("id"), "teacher_id": payload.TeacherID})
}

func (h *TeacherHandler) list(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "list teachers")
	}

	teachers, err := h.service.List(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.logger, err, "list teachers")
	}

	return utils.OK(c, teachers, "teachers retrieved", fiber.Map{"count": len(teachers)})
}

func (h *TeacherHandler) delete(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "delete teacher")
	}

	result, err := h.service.Delete(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		if result.State != "" {
			return utils.Fail(c, fiber.StatusBadGateway, "teacher deletion reverted", result)
		}
		return respondError(c, h.logger, err, "delete teacher")
	}

	return utils.SendSuccess(c, "teacher deleted", result)
}
