package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/session"
	"github.com/noah-isme/campus-portal/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func currentSession(c *fiber.Ctx) (session.Session, error) {
	sess, ok := session.Current(c)
	if !ok {
		return session.Session{}, session.ErrNoSession
	}
	return sess, nil
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}

// respondError maps service and backend errors onto HTTP statuses. Anything
// unrecognised is reported as a failed upstream call.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, action string) error {
	var apiErr *backend.APIError

	switch {
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	case errors.Is(err, session.ErrNoSession), errors.Is(err, backend.ErrUnauthorized):
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrCourseNotAssigned):
		return utils.Fail(c, fiber.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrAnnouncementNotFound), errors.Is(err, service.ErrTeacherNotFound), errors.Is(err, backend.ErrNotFound):
		return utils.Fail(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.Fail(c, fiber.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.Fail(c, fiber.StatusUnsupportedMediaType, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidMarksFile),
		errors.Is(err, service.ErrDuplicateAttendance),
		errors.Is(err, service.ErrEmptyAnnouncement):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUnsupportedRole):
		return utils.Fail(c, fiber.StatusForbidden, "role not supported by the portal", nil)
	case errors.As(err, &apiErr) && backend.IsClientError(err):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, apiErr.Message, nil)
	}

	middleware.RequestLogger(logger, c).Error().Err(err).Msg("failed to " + action)
	return utils.Fail(c, fiber.StatusBadGateway, "failed to "+action, nil)
}
