package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/product"
)

type ProductHandler struct {
	productService product.Service
}

func NewProductHandler(productService product.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateProductInput
	if err := bind(c, &input); err != nil {
		return err
	}

	p, err := h.productService.Create(c.UserContext(), middleware.GetCurrentBusinessID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	var err error
	if filter.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return err
	}
	if filter.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return err
	}

	products, err := h.productService.Search(c.UserContext(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) ListByBusiness(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	products, err := h.productService.ListByBusiness(c.UserContext(), businessID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	p, err := h.productService.GetByID(c.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	var input domain.UpdateProductInput
	if err := bind(c, &input); err != nil {
		return err
	}

	p, err := h.productService.Update(c.UserContext(), middleware.GetCurrentBusinessID(c), id, input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) UploadMainImage(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}

	opened := &openedFiles{}
	defer opened.Close()

	file, err := singleUpload(c, "mainImage", opened)
	if err != nil {
		return err
	}

	p, err := h.productService.SetMainImage(c.UserContext(), middleware.GetCurrentBusinessID(c), id, file)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) UploadGallery(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}

	opened := &openedFiles{}
	defer opened.Close()

	files, err := batchUpload(c, "gallery", opened)
	if err != nil {
		return err
	}

	gallery, err := h.productService.AddGalleryImages(c.UserContext(), middleware.GetCurrentBusinessID(c), id, files)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"gallery": gallery})
}

func (h *ProductHandler) DeleteGalleryImage(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}
	publicID, err := publicIDParam(c)
	if err != nil {
		return err
	}

	if err := h.productService.DeleteGalleryImage(c.UserContext(), middleware.GetCurrentBusinessID(c), id, publicID); err != nil {
		return toHTTPError(err)
	}
	return success(c)
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, middleware.BadRequest(key + " must be a number")
	}
	return &v, nil
}
