package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-portal/internal/config"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	ResultHandler       *handler.ResultHandler
	DashboardHandler    *handler.DashboardHandler
	AnnouncementHandler *handler.AnnouncementHandler
	StudentHandler      *handler.StudentHandler
	TeacherHandler      *handler.TeacherHandler
	ActivityHandler     *handler.ActivityHandler
	AttendanceHandler   *handler.AttendanceHandler
	MarksHandler        *handler.MarksHandler
	HealthProbes        []handler.HealthProbe
	SessionMiddleware   fiber.Handler
	LoginLimiter        fiber.Handler
	ImportLimiter       fiber.Handler
}

func passThrough(c *fiber.Ctx) error { return c.Next() }

func orPassThrough(h fiber.Handler) fiber.Handler {
	if h == nil {
		return passThrough
	}
	return h
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))
	api.Get("/metrics", observability.MetricsHandler())

	sessionGuard := deps.SessionMiddleware
	if sessionGuard == nil {
		sessionGuard = middleware.Session(middleware.SessionOptions{})
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), sessionGuard, orPassThrough(deps.LoginLimiter))
	}

	// Student results
	if deps.ResultHandler != nil {
		api.Get("/student/results", sessionGuard, middleware.RequireRole(middleware.AuthRoleStudent), deps.ResultHandler.Own)
		api.Get("/students/:id/results", sessionGuard,
			middleware.WithAuth(deps.ResultHandler.ForStudent, middleware.AuthOptions{Role: middleware.AuthRoleStaff}))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", sessionGuard))
	}

	if deps.AnnouncementHandler != nil {
		deps.AnnouncementHandler.Register(api.Group("/announcements", sessionGuard))
	}

	// Admin
	admin := api.Group("/admin", sessionGuard, middleware.RequireRole(middleware.AuthRoleAdmin))
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin.Group("/students"))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(admin.Group("/teachers"))
		admin.Post("/courses/:id/teachers", deps.TeacherHandler.Assign)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}

	// Teacher tools; admins may use them too
	teacher := api.Group("/teacher", sessionGuard, middleware.RequireRole(middleware.AuthRoleTeacher, middleware.AuthRoleAdmin))
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(teacher.Group("/attendance"))
	}
	if deps.MarksHandler != nil {
		deps.MarksHandler.Register(teacher.Group("/marks"), orPassThrough(deps.ImportLimiter))
	}
}
