package serverutils

import (
	"errors"

	"cv-chat-be/internal/pkg/apperror"
	"cv-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const genericErrorMessage = "Internal Server Error"

// ErrorHandler renders an error as a plain-text response. Only the
// client-safe message of an *apperror.Error or *fiber.Error is written;
// anything else is logged and answered with a generic 500.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status()).SendString(appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).SendString(fiberErr.Message)
		}

		log.Error("http", "Unhandled request error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err,
		})
		return ctx.Status(fiber.StatusInternalServerError).SendString(genericErrorMessage)
	}
}

// ErrorHandlerMiddleware applies ErrorHandler to errors returned by
// downstream handlers. Register recover after it so panics are rendered too.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}
