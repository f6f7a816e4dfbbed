package controller

import (
	"cv-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Post("", c.Create)
	h.Get("/:id/messages", c.Messages)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *sessionController) Messages(ctx *fiber.Ctx) error {
	res, err := c.service.GetMessages(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
