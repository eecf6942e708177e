package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderCorrelationID carries the request correlation id in both directions:
// it is echoed to the browser and forwarded to the backend API.
const HeaderCorrelationID = "X-Correlation-ID"

const maxCorrelationLength = 128

type correlationKey struct{}

// CorrelationID reuses a caller supplied correlation id, or mints one, and
// binds it to the request user context so backend calls made while serving
// the request carry it.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := cleanCorrelationID(c.Get(HeaderCorrelationID))
		if id == "" {
			id = cleanCorrelationID(c.Get(fiber.HeaderXRequestID))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(HeaderCorrelationID, id)
		c.SetUserContext(ContextWithCorrelation(c.UserContext(), id))
		return c.Next()
	}
}

// CorrelationIDFromContext returns the id bound by CorrelationID, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// GetCorrelationID returns the correlation id of the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	return CorrelationIDFromContext(c.UserContext())
}

// ContextWithCorrelation attaches id to ctx. Blank ids leave ctx untouched.
func ContextWithCorrelation(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = cleanCorrelationID(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// RequestLogger returns base enriched with the request correlation id.
func RequestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if id := GetCorrelationID(c); id != "" {
		logger = base.With().Str("correlation_id", id).Logger()
	}
	return &logger
}

// cleanCorrelationID rejects oversized ids and ids outside printable ASCII.
func cleanCorrelationID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxCorrelationLength {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
