package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/session"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Details json.RawMessage        `json:"details"`
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var body envelope
	decodeResponse(t, resp, &body)
	return body
}

func withSession(role, userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session.Bind(c, session.Session{Token: role + "-token", Role: role, UserID: userID})
		return c.Next()
	}
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}
