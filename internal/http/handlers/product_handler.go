package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	name, err := validate.Name(req.Name)
	if err != nil {
		return respondError(c, "product.create", err, "")
	}
	price, err := validate.Price(req.Price)
	if err != nil {
		return respondError(c, "product.create", err, "")
	}
	sizes, err := validate.Sizes(req.sizes(), req.Sizes != nil)
	if err != nil {
		return respondError(c, "product.create", err, "")
	}

	id, err := h.Catalog.CreateProduct(c.UserContext(), name, price, sizes)
	if err != nil {
		return respondError(c, "product.create", err, "Failed to create product")
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": id})
	return c.Status(fiber.StatusCreated).JSON(CreatedResponse{ID: id})
}

// List handles GET /products?name=&size=&limit=&offset=.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, err := validate.Limit(c.Query("limit"))
	if err != nil {
		return respondError(c, "product.list", err, "")
	}
	offset, err := validate.Offset(c.Query("offset"))
	if err != nil {
		return respondError(c, "product.list", err, "")
	}
	filter := domain.ProductFilter{Name: c.Query("name"), Size: c.Query("size")}

	products, page, err := h.Catalog.ListProducts(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, "product.list", err, "Could not load products")
	}
	return c.JSON(ProductPage{Data: products, Page: page})
}
