package handlers

import (
	"errors"

	"modernblog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// validationFailed writes the 400 response for a ValidationError. handled is false for any other error.
func validationFailed(c *fiber.Ctx, err error) (handled bool, resp error) {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return false, nil
	}
	return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func blogNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message":  "Blog not found",
		"redirect": "/",
	})
}

func signInRequired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message":  "Please sign in to continue",
		"redirect": "/login",
	})
}

// NotFound answers every route nothing else matched.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message":  "Page not found",
		"redirect": "/",
	})
}
