package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error returned further down the chain
// with the standard response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		// Message only; a wrapped cause stays server side.
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return ctx.Status(code).JSON(ErrorResponse(code, message))
}
