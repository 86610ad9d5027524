package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/export"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/stats"
)

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "created"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JsonDeleted(c *fiber.Ctx, message string) error {
	if strings.TrimSpace(message) == "" {
		message = "deleted"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func JsonError(c *fiber.Ctx, status int, message string) error {
	return jsonErrorWithFields(c, status, message, nil)
}

func jsonErrorWithFields(c *fiber.Ctx, status int, message string, fields map[string][]string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
		Errors:    fields,
	})
}

func kindStatus(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler is the app-wide fiber error handler. Causes of internal
// errors are logged and never sent to the caller.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var se *service.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &se):
			status := kindStatus(se.Kind)
			if status >= 500 {
				log.Error("request failed",
					zap.String("request_id", requestID(c)),
					zap.String("route", c.Route().Path),
					zap.Error(err),
				)
			}
			return jsonErrorWithFields(c, status, se.Message, se.Fields)
		case errors.Is(err, export.ErrUnknownTable), errors.Is(err, export.ErrEmptyTable):
			return JsonError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, stats.ErrUnknownDepartment):
			return JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.As(err, &fe):
			return JsonError(c, fe.Code, fe.Message)
		default:
			log.Error("unhandled error",
				zap.String("request_id", requestID(c)),
				zap.String("route", c.Route().Path),
				zap.Error(err),
			)
			return JsonError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}
}
