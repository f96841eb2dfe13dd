package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/order"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateOrderInput
	if err := bind(c, &input); err != nil {
		return err
	}

	o, err := h.orderService.Create(c.UserContext(), middleware.GetCurrentBusinessID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) ListByBusiness(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByBusiness(c.UserContext(), businessID, domain.OrderRole(c.Query("type")))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	o, err := h.orderService.GetByID(c.UserContext(), middleware.GetCurrentBusinessID(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) QRCode(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	png, err := h.orderService.QRCode(c.UserContext(), middleware.GetCurrentBusinessID(c), id)
	if err != nil {
		return toHTTPError(err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	var input domain.UpdateOrderStatusInput
	if err := bind(c, &input); err != nil {
		return err
	}

	o, err := h.orderService.UpdateStatus(c.UserContext(), middleware.GetCurrentBusinessID(c), id, input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(o)
}
