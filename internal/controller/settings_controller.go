package controller

import (
	"encoding/json"

	"agent-dashboard-be/internal/dto"
	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/serverutils"
	"agent-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
}

type settingsController struct {
	service service.ISettingsService
}

func NewSettingsController(service service.ISettingsService) ISettingsController {
	return &settingsController{service: service}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	r.Get("/settings", c.GetAll)
	r.Post("/settings/save", c.Save)
	r.Post("/settings/create", c.Create)
	r.Post("/settings/select", c.Select)
}

func (c *settingsController) GetAll(ctx *fiber.Ctx) error {
	docs, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(docs)
}

func (c *settingsController) Save(ctx *fiber.Ctx) error {
	var doc entity.Document
	if err := json.Unmarshal(ctx.Body(), &doc); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if doc.PathName() == "" {
		return serverutils.NewInvalidInput("file name is required")
	}

	saved, err := c.service.Save(ctx.Context(), doc)
	if err != nil {
		return err
	}
	return ctx.JSON(saved)
}

func (c *settingsController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	created, err := c.service.Create(ctx.Context(), req.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(created)
}

func (c *settingsController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	selected, ok := c.service.Select(req.PathName)
	if !ok {
		return ctx.JSON(fiber.Map{"selected": nil})
	}
	return ctx.JSON(fiber.Map{"selected": selected})
}
