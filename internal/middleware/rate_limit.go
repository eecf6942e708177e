package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/campus-portal/internal/session"
	"github.com/noah-isme/campus-portal/internal/utils"
)

// RateLimit throttles a route per signed-in user, falling back to the client
// IP before a session exists (the login form). bucket namespaces the keys so
// separate limiters never share counters.
func RateLimit(bucket string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if sess, ok := session.Current(c); ok {
				return bucket + ":user:" + sess.UserID
			}
			return bucket + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return utils.Fail(c, fiber.StatusTooManyRequests, "too many requests, try again later", fiber.Map{
				"bucket": bucket,
			})
		},
	})
}
