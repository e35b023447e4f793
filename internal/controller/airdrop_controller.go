package controller

import (
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAirdropController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type airdropController struct {
	service service.IAirdropService
	protect fiber.Handler
}

func NewAirdropController(service service.IAirdropService, protect fiber.Handler) IAirdropController {
	return &airdropController{service: service, protect: protect}
}

func (c *airdropController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/airdrops", c.protect)
	h.Get("/", c.List)
	h.Get("/summary", c.Summary)
	h.Get("/:id", c.Get)
	h.Post("/", c.Create)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *airdropController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), serverutils.CurrentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Airdrops", res))
}

func (c *airdropController) Summary(ctx *fiber.Ctx) error {
	res, err := c.service.Summary(ctx.UserContext(), serverutils.CurrentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Airdrop summary", res))
}

func (c *airdropController) Get(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.CurrentUser(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Airdrop", res))
}

func (c *airdropController) Create(ctx *fiber.Ctx) error {
	req, err := bindAirdropRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.CurrentUser(ctx), req, formFile(ctx, "screenshot"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Airdrop created", res))
}

func (c *airdropController) Update(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	req, err := bindAirdropRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.CurrentUser(ctx), id, req, formFile(ctx, "screenshot"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Airdrop updated", res))
}

func (c *airdropController) Delete(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.CurrentUser(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Airdrop removed", nil))
}

// bindAirdropRequest accepts JSON or a (multipart) form. Form fields that
// were not sent stay nil.
func bindAirdropRequest(ctx *fiber.Ctx) (*dto.AirdropRequest, error) {
	var req dto.AirdropRequest
	if isJSON(ctx) {
		if err := ctx.BodyParser(&req); err != nil {
			return nil, serverutils.BadRequest("invalid request body")
		}
		return &req, nil
	}

	textFields := map[string]**string{
		"name":            &req.Name,
		"description":     &req.Description,
		"link":            &req.Link,
		"blockchain":      &req.Blockchain,
		"status":          &req.Status,
		"startDate":       &req.StartDate,
		"endDate":         &req.EndDate,
		"notes":           &req.Notes,
		"tokenSymbol":     &req.TokenSymbol,
		"contractAddress": &req.ContractAddress,
		"claimDate":       &req.ClaimDate,
	}
	for key, target := range textFields {
		*target = formValue(ctx, key)
	}

	var err error
	if req.ExpectedValue, err = formFloat(ctx, "expectedValue"); err != nil {
		return nil, err
	}
	if req.ClaimedAmount, err = formFloat(ctx, "claimedAmount"); err != nil {
		return nil, err
	}
	req.ClearScreenshot = formBool(ctx, "clearScreenshot")
	return &req, nil
}
