package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/connection"
)

type ConnectionHandler struct {
	connectionService connection.Service
}

func NewConnectionHandler(connectionService connection.Service) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

func (h *ConnectionHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateConnectionInput
	if err := bind(c, &input); err != nil {
		return err
	}

	conn, err := h.connectionService.Create(c.UserContext(), middleware.GetCurrentBusinessID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

func (h *ConnectionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "connection")
	if err != nil {
		return err
	}

	var input domain.UpdateConnectionInput
	if err := bind(c, &input); err != nil {
		return err
	}

	conn, err := h.connectionService.UpdateStatus(c.UserContext(), middleware.GetCurrentBusinessID(c), id, input.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(conn)
}

func (h *ConnectionHandler) ListByBusiness(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	conns, err := h.connectionService.ListByBusiness(c.UserContext(), businessID, domain.ConnectionStatus(c.Query("status")))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(conns)
}
