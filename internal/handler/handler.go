package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"locallink/internal/middleware"
	"locallink/internal/pkg/validate"
	"locallink/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Business     *BusinessHandler
	Product      *ProductHandler
	Review       *ReviewHandler
	Order        *OrderHandler
	Connection   *ConnectionHandler
	Message      *MessageHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Business:     NewBusinessHandler(services.Business),
		Product:      NewProductHandler(services.Product),
		Review:       NewReviewHandler(services.Review),
		Order:        NewOrderHandler(services.Order),
		Connection:   NewConnectionHandler(services.Connection),
		Message:      NewMessageHandler(services.Message),
		Notification: NewNotificationHandler(services.Notification),
	}
}

// bind parses the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return middleware.BadRequest(err.Error())
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

func success(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
