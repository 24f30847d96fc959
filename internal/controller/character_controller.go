package controller

import (
	"encoding/json"

	"agent-dashboard-be/internal/dto"
	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/serverutils"
	"agent-dashboard-be/internal/service"
	"agent-dashboard-be/pkg/agent"

	"github.com/gofiber/fiber/v2"
)

type ICharacterController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Load(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	GenerateField(ctx *fiber.Ctx) error
}

type characterController struct {
	service service.ICharacterService
}

func NewCharacterController(service service.ICharacterService) ICharacterController {
	return &characterController{service: service}
}

func (c *characterController) RegisterRoutes(r fiber.Router) {
	r.Get("/characters", c.GetAll)
	r.Get("/character/load", c.Load)
	r.Post("/character/save", c.Save)
	r.Post("/character/select", c.Select)
	r.Post("/character/gen", c.GenerateField)
}

func (c *characterController) GetAll(ctx *fiber.Ctx) error {
	docs, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(docs)
}

func (c *characterController) Load(ctx *fiber.Ctx) error {
	fileName := ctx.Query("file")
	if fileName == "" {
		return serverutils.NewInvalidInput("file name is required")
	}

	doc, err := c.service.Load(ctx.Context(), fileName)
	if err != nil {
		return err
	}
	return ctx.JSON(doc)
}

func (c *characterController) Save(ctx *fiber.Ctx) error {
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

func (c *characterController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Unknown keys are a silent no-op; the response reflects whatever is
	// actually selected afterwards.
	selected, ok := c.service.Select(req.PathName)
	if !ok {
		return ctx.JSON(fiber.Map{"selected": nil})
	}
	return ctx.JSON(fiber.Map{"selected": selected})
}

func (c *characterController) GenerateField(ctx *fiber.Ctx) error {
	var req dto.GenCharacterFieldRequest
	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return serverutils.NewInvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	content, err := c.service.GenerateField(ctx.Context(), agent.GenFieldRequest{
		CharacterData: req.CharacterData,
		Prompt:        req.Prompt,
		Field:         req.Field,
		KeepCurrent:   req.KeepCurrent,
		NumFields:     req.NumFields,
	})
	if err != nil {
		return serverutils.NewIOFailure("failed to generate character field", err)
	}
	return ctx.JSON(fiber.Map{"content": content})
}
