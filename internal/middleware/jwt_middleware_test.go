package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"modernblog/internal/middleware"
	"modernblog/internal/models"
	"modernblog/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]models.Identity

func (f fakeResolver) Session(_ context.Context, token string) (session.Context, error) {
	id, ok := f[token]
	if !ok {
		return session.Anonymous(), errors.New("invalid token")
	}
	return session.WithIdentity(id), nil
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.Session(fakeResolver{"good": {ID: "u1", Email: "a@example.com"}}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": middleware.SessionFrom(c).UserID(), "token": middleware.TokenFrom(c)})
	})
	app.Get("/private", middleware.AuthRequired(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/guest", middleware.GuestOnly(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func request(t *testing.T, app *fiber.App, path, authHeader string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestSession(t *testing.T) {
	app := newTestApp()

	_, body := request(t, app, "/whoami", "Bearer good")
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "good", body["token"])

	for _, header := range []string{"", "Bearer bad", "Basic good", "good"} {
		_, body = request(t, app, "/whoami", header)
		assert.Equal(t, "", body["user_id"], header)
		assert.Equal(t, "", body["token"], header)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp()

	status, body := request(t, app, "/private", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "/login", body["redirect"])

	status, _ = request(t, app, "/private", "Bearer good")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestGuestOnly(t *testing.T) {
	app := newTestApp()

	status, body := request(t, app, "/guest", "Bearer good")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "/", body["redirect"])

	status, _ = request(t, app, "/guest", "")
	assert.Equal(t, fiber.StatusOK, status)
}
