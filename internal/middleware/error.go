package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/models"
	"github.com/vitalixdb/vitalix/internal/services"
)

// StatusForServiceError maps service error codes to HTTP status codes
func StatusForServiceError(serr *services.ServiceError) int {
	switch serr.Code {
	case services.CodeNotInitialized:
		return fiber.StatusServiceUnavailable
	case services.CodeFeatureDisabled:
		return fiber.StatusForbidden
	case services.CodeInsufficientData:
		return fiber.StatusUnprocessableEntity
	case services.CodeComputationError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler returns a custom error handler middleware. Service errors
// keep their code and details; everything else is rendered generically.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serr *services.ServiceError
		if errors.As(err, &serr) {
			status := StatusForServiceError(serr)

			logger.Warn("Service error",
				"path", c.Path(),
				"method", c.Method(),
				"status", status,
				"code", serr.Code,
			)

			return c.Status(status).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    serr.Code,
					Message: serr.Message,
					Details: serr.Details,
				},
			})
		}

		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ERROR",
				Message: message,
			},
		})
	}
}
