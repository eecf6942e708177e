package middleware

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger         *zerolog.Logger
	AllowedOrigins []string
}

// Register attaches the middleware every portal route shares. Session
// cookies travel cross-origin from the UI, so credentials are allowed and
// origins must be listed explicitly.
func Register(app *fiber.App, cfg Config) {
	logger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "http").Logger()
	}

	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app.Use(recover.New(recover.Config{EnableStackTrace: true, StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
		RequestLogger(logger, c).Error().Interface("panic", e).Str("path", c.Path()).Msg("recovered from panic")
	}}))
	app.Use(CorrelationID())
	app.Use(Observability(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, " + HeaderCorrelationID,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowCredentials: true,
		ExposeHeaders:    HeaderCorrelationID + ", X-Application",
	}))
}
