package controller

import (
	"agent-dashboard-be/internal/dto"
	"agent-dashboard-be/internal/pkg/serverutils"
	"agent-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/send", c.Send)
	r.Get("/chat/messages", c.Messages)
	r.Post("/chat/cancel", c.Cancel)
	r.Post("/chat/clear", c.Clear)
}

// Send acknowledges the optimistic append immediately; the agent reply lands
// asynchronously and reaches the dashboard over the websocket.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Send(ctx.Context(), req.PathName, req.Content); err != nil {
		return err
	}
	return ctx.JSON(dto.SendChatResponse{Success: true})
}

func (c *chatController) Messages(ctx *fiber.Ctx) error {
	pathName := ctx.Query("path_name")
	if pathName == "" {
		return serverutils.NewInvalidInput("path_name is required")
	}

	messages, inProgress := c.service.Messages(pathName)
	return ctx.JSON(dto.ChatMessagesResponse{
		PathName:   pathName,
		Messages:   messages,
		InProgress: inProgress,
	})
}

func (c *chatController) Cancel(ctx *fiber.Ctx) error {
	var req dto.CancelChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.service.Cancel(req.PathName)
	return ctx.JSON(dto.SendChatResponse{Success: true})
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	var req dto.ClearChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.service.Clear(req.PathName)
	return ctx.JSON(dto.SendChatResponse{Success: true})
}
