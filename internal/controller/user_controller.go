package controller

import (
	"strings"

	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	protect fiber.Handler
}

func NewUserController(service service.IUserService, protect fiber.Handler) IUserController {
	return &userController{service: service, protect: protect}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/profile", c.protect)
	h.Get("/", c.GetProfile)
	h.Put("/", c.UpdateProfile)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

// UpdateProfile reads a multipart form: username, currentPassword,
// newPassword, clearProfilePicture and a profilePicture file.
func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	req := dto.UpdateProfileRequest{
		CurrentPassword:     ctx.FormValue("currentPassword"),
		NewPassword:         ctx.FormValue("newPassword"),
		ClearProfilePicture: formBool(ctx, "clearProfilePicture"),
	}
	if username := formValue(ctx, "username"); username != nil && strings.TrimSpace(*username) != "" {
		trimmed := strings.TrimSpace(*username)
		req.Username = &trimmed
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), userId, &req, formFile(ctx, "profilePicture"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
