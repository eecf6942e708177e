package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-portal/internal/session"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// SessionOptions configures the session middleware.
type SessionOptions struct {
	// Optional lets requests without a session through unbound.
	Optional bool
	Now      func() time.Time
}

// Session reads the cookie session and binds it to the request. Tokens are
// not verified here; the backend rejects invalid ones when they are
// forwarded. A token whose exp claim has passed is treated as absent and its
// cookies are cleared.
func Session(opts SessionOptions) fiber.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		sess, err := session.FromRequest(c)
		if err == nil {
			if exp, ok := session.TokenExpiry(sess.Token); ok && !now().Before(exp) {
				session.Clear(c)
				err = session.ErrNoSession
			}
		}

		if err != nil {
			if opts.Optional {
				return c.Next()
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		session.Bind(c, sess)
		return c.Next()
	}
}
