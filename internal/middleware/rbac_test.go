package middleware_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/middleware"
)

func roleApp(bind fiber.Handler, roles ...string) *fiber.App {
	app := fiber.New()
	if bind != nil {
		app.Use(bind)
	}
	admin := app.Group("/admin", middleware.RequireRole(roles...))
	admin.Get("/students", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	app := roleApp(bindSession("admin"), "admin", "teacher")

	resp := performPath(t, app, "/admin/students")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsStudentFromStaffGroup(t *testing.T) {
	app := roleApp(bindSession("student"), "admin", "teacher")

	resp := performPath(t, app, "/admin/students")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleWithoutSessionIsUnauthorized(t *testing.T) {
	app := roleApp(nil, "admin")

	resp := performPath(t, app, "/admin/students")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
