package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

// Create handles POST /orders. Malformed and unknown product references both answer 404.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	userID, err := validate.UserID(req.userID(), req.UserID != nil)
	if err != nil {
		return respondError(c, "order.create", err, "")
	}
	items, err := validate.Items(req.items())
	if err != nil {
		return respondError(c, "order.create", err, "")
	}

	orderID, err := h.Order.Create(c.UserContext(), userID, items)
	if err != nil {
		return respondError(c, "order.create", err, "Failed to create order")
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": orderID, "user_id": userID, "items": len(items)})
	return c.Status(fiber.StatusCreated).JSON(CreatedResponse{ID: orderID})
}

// ListByUser handles GET /orders/:userId?limit=&offset=.
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := validate.UserID(utils.CopyString(c.Params("userId")), true)
	if err != nil {
		return respondError(c, "order.list", err, "")
	}
	limit, err := validate.Limit(c.Query("limit"))
	if err != nil {
		return respondError(c, "order.list", err, "")
	}
	offset, err := validate.Offset(c.Query("offset"))
	if err != nil {
		return respondError(c, "order.list", err, "")
	}

	orders, page, err := h.Order.ListByUser(c.UserContext(), userID, limit, offset)
	if err != nil {
		return respondError(c, "order.list", err, "Could not load orders")
	}
	return c.JSON(OrderPage{Data: orders, Page: page})
}
