package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/validate"
)

const msgOrderProductsNotFound = "One or more products in the order not found or invalid product ID format."

// ErrorHandler answers errors that escaped a handler with JSON and keeps internals out of 5xx bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}

// respondError maps service errors onto status codes. serverMsg is what a 500 says.
func respondError(c *fiber.Ctx, action string, err error, serverMsg string) error {
	var fe *validate.FieldError
	switch {
	case errors.As(err, &fe):
		applog.Security(c, "validation.fail", map[string]any{"field": fe.Field, "reason": fe.Reason})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: fe.Error()})
	case errors.Is(err, domain.ErrValidation):
		applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
	case domain.IsNotFound(err):
		applog.Info(c, action+".not_found", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgOrderProductsNotFound})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: serverMsg})
	}
}

func badBody(c *fiber.Ctx, err error) error {
	applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: "request body is not valid JSON for this endpoint"})
}
