package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var input domain.SendMessageInput
	if err := bind(c, &input); err != nil {
		return err
	}

	msg, err := h.messageService.Send(c.UserContext(), middleware.GetCurrentBusinessID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	business1, err1 := uuid.Parse(c.Query("business1"))
	business2, err2 := uuid.Parse(c.Query("business2"))
	if err1 != nil || err2 != nil {
		return middleware.BadRequest("business1 and business2 are required")
	}

	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return middleware.BadRequest("limit must be a positive number")
	}

	messages, err := h.messageService.Conversation(c.UserContext(), middleware.GetCurrentBusinessID(c), domain.ConversationQuery{
		Business1: business1,
		Business2: business2,
		Limit:     limit,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(messages)
}
