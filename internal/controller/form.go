package controller

import (
	"mime/multipart"
	"strconv"
	"strings"

	"airdrop-tracker-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// formValue returns nil when the field was not sent at all, which is
// different from sending an empty value.
func formValue(ctx *fiber.Ctx, key string) *string {
	if form, err := ctx.MultipartForm(); err == nil {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return nil
		}
		v := values[0]
		return &v
	}
	if ctx.Request().PostArgs().Has(key) {
		v := ctx.FormValue(key)
		return &v
	}
	return nil
}

// formFloat treats an empty value as absent.
func formFloat(ctx *fiber.Ctx, key string) (*float64, error) {
	raw := formValue(ctx, key)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, serverutils.BadRequest(key + " must be a number")
	}
	return &v, nil
}

func formBool(ctx *fiber.Ctx, key string) bool {
	raw := formValue(ctx, key)
	if raw == nil {
		return false
	}
	v, _ := strconv.ParseBool(*raw)
	return v
}

// formFile returns nil when no file was attached.
func formFile(ctx *fiber.Ctx, key string) *multipart.FileHeader {
	file, err := ctx.FormFile(key)
	if err != nil {
		return nil
	}
	return file
}

func isJSON(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(ctx.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func paramUUID(ctx *fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(key))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("invalid id")
	}
	return id, nil
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, serverutils.Unauthorized("not authorized")
	}
	return id, nil
}
