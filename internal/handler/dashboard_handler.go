package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// DashboardHandler serves the role specific dashboard.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.summary)
}

func (h *DashboardHandler) summary(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.logger, err, "load dashboard")
	}

	summary, err := h.service.Summary(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.logger, err, "load dashboard")
	}

	return utils.OK(c, summary, "dashboard loaded", fiber.Map{"cached": summary.Cached})
}
