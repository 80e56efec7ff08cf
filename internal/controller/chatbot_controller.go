package controller

import (
	"strings"

	"travel-concierge-be/internal/dto"
	"travel-concierge-be/internal/pkg/serverutils"
	"travel-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IConciergeService
}

func NewChatbotController(service service.IConciergeService) IChatbotController {
	return &chatbotController{service: service}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot")
	h.Post("", c.Chat)
	h.Get("/history/:travelerId", c.History)
	h.Delete("/history/:travelerId", c.ClearHistory)
}

// Chat answers 200 for every conversational outcome; only a malformed body
// is rejected.
func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatbotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.TravelerId = strings.TrimSpace(req.TravelerId)
	req.Message = strings.TrimSpace(req.Message)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Authorization = ctx.Get(fiber.HeaderAuthorization)

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) History(ctx *fiber.Ctx) error {
	travelerId := ctx.Params("travelerId")

	res, err := c.service.History(ctx.UserContext(), travelerId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) ClearHistory(ctx *fiber.Ctx) error {
	travelerId := ctx.Params("travelerId")

	if err := c.service.ClearHistory(ctx.UserContext(), travelerId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation history cleared", nil))
}
