package handler

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
)

// Every response carries a success flag; errors add an error string, and
// validation errors add per-field details.

// OK answers 200 with a data payload.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Created answers 201 with a data payload.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Fail answers an error status with a message.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ValidationFail answers 400 with per-field validation details.
func ValidationFail(c *fiber.Ctx, details interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Validation failed",
		"details": details,
	})
}

// Validate is the shared request validator.
var Validate = validator.New()

// ValidationDetails renders validator errors into the details list the
// clients expect.
func ValidationDetails(err error) []fiber.Map {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []fiber.Map{{"message": err.Error()}}
	}

	details := make([]fiber.Map, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, fiber.Map{
			"path":    fieldErr.Field(),
			"message": fieldErr.Tag(),
		})
	}

	return details
}

// phonePattern accepts digits, spaces and common punctuation. Matches the
// public form's client-side rule.
var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// sanitizer strips all markup from user-supplied strings before they reach
// storage or responses.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips markup from a string.
func Sanitize(s string) string {
	return sanitizer.Sanitize(s)
}

// SanitizePtr strips markup from an optional string in place.
func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}

	clean := sanitizer.Sanitize(*s)

	return &clean
}
