package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-portal/internal/session"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// RequireRole guards a route group so only sessions holding one of roles pass.
// It expects Session to have run earlier in the chain.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		if normalized := session.NormalizeRole(role); normalized != "" {
			allowed = append(allowed, normalized)
		}
	}

	return func(c *fiber.Ctx) error {
		sess, ok := session.Current(c)
		if !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		if !sess.HasRole(allowed...) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", fiber.Map{
				"role": sess.Role,
			})
		}
		return c.Next()
	}
}
