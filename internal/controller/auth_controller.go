package controller

import (
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Get("/verify-email", c.VerifyEmail)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.Register(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse[any](
		"Registration successful. Please check your email to verify your account.", nil))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("invalid query")
	}

	alreadyVerified, err := c.service.VerifyEmail(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	message := "Email verified successfully. You can now log in."
	if alreadyVerified {
		message = "Email already verified"
	}
	return ctx.JSON(serverutils.SuccessResponse[any](message, nil))
}
