package controller

import (
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetAllUsers(ctx *fiber.Ctx) error
	UpdateUserRole(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	GetActivity(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	protect fiber.Handler
}

func NewAdminController(service service.IAdminService, protect fiber.Handler) IAdminController {
	return &adminController{service: service, protect: protect}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", c.protect, serverutils.AdminOnly())

	// Users
	h.Get("/users", c.GetAllUsers)
	h.Put("/users/:id/role", c.UpdateUserRole)
	h.Delete("/users/:id", c.DeleteUser)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
	h.Get("/activity", c.GetActivity)
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	res, err := c.service.ListUsers(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) UpdateUserRole(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}

	res, err := c.service.UpdateUserRole(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteUser(ctx.UserContext(), serverutils.CurrentUser(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User and their airdrops removed", nil))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var query dto.LogQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.BadRequest("invalid query")
	}

	logs, err := c.service.GetLogs(query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	entry, err := c.service.GetLogById(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", entry))
}

func (c *adminController) GetActivity(ctx *fiber.Ctx) error {
	res, err := c.service.RecentActivity(ctx.UserContext(), ctx.QueryInt("limit", 0), ctx.Query("type"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent activity", res))
}
