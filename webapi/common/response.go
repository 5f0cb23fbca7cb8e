// Package common holds response helpers shared by the webapi feature
// packages.
package common

import (
	"errors"

	"github.com/amirasaad/walletchat/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the failure body for every route: a single human-readable
// message.
type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

// ErrorJSON writes a JSON error body with the given status.
func ErrorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrConnectionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure the 400 response is already written;
// callers should return the (nil) error as-is.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return &input, nil
}
