package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/review"
)

type ReviewHandler struct {
	reviewService review.Service
}

func NewReviewHandler(reviewService review.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateReviewInput
	if err := bind(c, &input); err != nil {
		return err
	}

	r, err := h.reviewService.Create(c.UserContext(), middleware.GetCurrentBusinessID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *ReviewHandler) ListByBusiness(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListByBusiness(c.UserContext(), businessID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "review")
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.UserContext(), middleware.GetCurrentBusinessID(c), id); err != nil {
		return toHTTPError(err)
	}
	return success(c)
}
