package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders handler errors as the JSON envelope clients expect.
// Unexpected errors are masked behind a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
