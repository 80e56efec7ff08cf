package controller

import (
	"errors"

	"travel-concierge-be/internal/dto"
	"travel-concierge-be/internal/pkg/serverutils"
	"travel-concierge-be/internal/service"
	"travel-concierge-be/pkg/dates"

	"github.com/gofiber/fiber/v2"
)

type IConciergeController interface {
	RegisterRoutes(r fiber.Router)
	Plan(ctx *fiber.Ctx) error
}

type conciergeController struct {
	service service.IConciergeService
}

func NewConciergeController(service service.IConciergeService) IConciergeController {
	return &conciergeController{service: service}
}

func (c *conciergeController) RegisterRoutes(r fiber.Router) {
	r.Post("/concierge", c.Plan)
}

func (c *conciergeController) Plan(ctx *fiber.Ctx) error {
	var req dto.ConciergeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Plan(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, dates.ErrInvalidDateFormat) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(res)
}
