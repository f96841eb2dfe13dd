package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/service/business"
)

type BusinessHandler struct {
	businessService business.Service
}

func NewBusinessHandler(businessService business.Service) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

func (h *BusinessHandler) List(c *fiber.Ctx) error {
	filter := domain.BusinessFilter{
		BusinessType: c.Query("business_type"),
		Location:     c.Query("location"),
		Search:       c.Query("search"),
	}

	businesses, err := h.businessService.List(c.UserContext(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(businesses)
}

func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "business")
	if err != nil {
		return err
	}

	b, err := h.businessService.GetByID(c.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(b)
}

func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "business")
	if err != nil {
		return err
	}

	var input domain.UpdateBusinessInput
	if err := bind(c, &input); err != nil {
		return err
	}

	b, err := h.businessService.Update(c.UserContext(), id, input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(b)
}

func (h *BusinessHandler) UploadLogo(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "business")
	if err != nil {
		return err
	}

	opened := &openedFiles{}
	defer opened.Close()

	file, err := singleUpload(c, "logo", opened)
	if err != nil {
		return err
	}

	b, err := h.businessService.SetLogo(c.UserContext(), id, file)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(b)
}

func (h *BusinessHandler) UploadImages(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "business")
	if err != nil {
		return err
	}

	opened := &openedFiles{}
	defer opened.Close()

	files, err := batchUpload(c, "images", opened)
	if err != nil {
		return err
	}

	b, err := h.businessService.AddImages(c.UserContext(), id, files)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BusinessHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "business")
	if err != nil {
		return err
	}
	publicID, err := publicIDParam(c)
	if err != nil {
		return err
	}

	if err := h.businessService.DeleteImage(c.UserContext(), id, publicID); err != nil {
		return toHTTPError(err)
	}
	return success(c)
}
