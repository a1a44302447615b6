// Package respond shapes the uniform response envelope:
//
//	{ "statusCode": n, "data": ..., "message": "...", "success": n < 400 }
//
// Error responses carry an additional "errors" array and a null data field.
package respond

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/apperr"
)

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// errEnvelope always serializes errors, even when the array is empty.
type errEnvelope struct {
	envelope
	Errors []string `json:"errors"`
}

// JSON writes a success envelope with the given status.
func JSON(c fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// OK is shorthand for a 200 envelope.
func OK(c fiber.Ctx, data any, message string) error {
	return JSON(c, fiber.StatusOK, data, message)
}

// Created is shorthand for a 201 envelope.
func Created(c fiber.Ctx, data any, message string) error {
	return JSON(c, fiber.StatusCreated, data, message)
}

// Error converts any error to the taxonomy and writes the error envelope.
// Internal errors are logged with the wrapped cause; the client only sees
// the sanitized message.
func Error(c fiber.Ctx, err error) error {
	ae := apperr.From(err)

	if ae.Kind == apperr.KindInternal {
		log.Error().Err(ae).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(ae.HTTPStatus()).JSON(errEnvelope{
		envelope: envelope{
			StatusCode: ae.HTTPStatus(),
			Data:       nil,
			Message:    ae.Message,
			Success:    false,
		},
		Errors: []string{},
	})
}
