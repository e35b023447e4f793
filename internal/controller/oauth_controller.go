package controller

import (
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	GoogleLogin(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/google-login", c.GoogleLogin)
}

// GoogleLogin takes the authorization code from the popup flow.
func (c *oauthController) GoogleLogin(ctx *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.GoogleLogin(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}
