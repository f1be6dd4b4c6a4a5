package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/services"
	"github.com/example/lotus/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders   *services.OrderService
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{orders: orders, telegram: telegram}
}

// orderResponse adds the derived shipping status to the stored order.
type orderResponse struct {
	models.Order
	ShippingStatus string `json:"shipping_status"`
}

func newOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		Order:          order,
		ShippingStatus: services.ShippingStatusFor(order.Status),
	}
}

type shippingInfoRequest struct {
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Detail   string `json:"detail"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

type createOrderRequest struct {
	Email           string              `json:"email"`
	FullName        string              `json:"full_name"`
	Phone           string              `json:"phone"`
	AdditionalPhone string              `json:"additional_phone"`
	ShippingInfo    shippingInfoRequest `json:"shipping_info"`
	Items           []orderItemRequest  `json:"items"`
	PaymentMethod   string              `json:"payment_method"`
	PromoCode       string              `json:"promo_code"`
}

// CreateOrder places an order. Guests may check out without an account;
// signed-in users get the order linked to their account and their token
// email used when the request omits one.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	identity, _ := middleware.GetCurrentIdentity(c)

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var userID *uuid.UUID
	if identity.Authenticated {
		id := identity.UserID
		userID = &id
		if req.Email == "" {
			req.Email = identity.Email
		}
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCOD
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order, err := h.orders.Create(services.OrderDraft{
		UserID:           userID,
		Email:            req.Email,
		FullName:         req.FullName,
		Phone:            req.Phone,
		AdditionalPhone:  req.AdditionalPhone,
		Province:         req.ShippingInfo.Province,
		District:         req.ShippingInfo.District,
		Ward:             req.ShippingInfo.Ward,
		AddressDetail:    req.ShippingInfo.Detail,
		Items:            items,
		PaymentMethod:    req.PaymentMethod,
		PromoCode:        req.PromoCode,
		RedeemerIdentity: identity.RedeemerKey(req.Email),
		Authenticated:    identity.Authenticated,
	})
	if err != nil {
		return mapServiceError(err)
	}

	go func(order models.Order) {
		if err := h.telegram.NotifyNewOrder(&order); err != nil {
			log.Printf("[Order] Telegram notification failed for %s: %v", order.OrderCode, err)
		}
	}(*order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    newOrderResponse(*order),
	})
}

// GetOrder returns one order by code. Admins and the authenticated owner
// may read it; a guest may read it by presenting the code together with a
// matching email query parameter (post-checkout confirmation).
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	identity, _ := middleware.GetCurrentIdentity(c)

	order, err := h.orders.GetByCode(c.Params("code"))
	if err != nil {
		return mapServiceError(err)
	}

	if !services.CanViewOrder(identity, c.Query("email"), order) {
		if identity.Authenticated {
			return fiber.NewError(fiber.StatusForbidden, "you do not have access to this order")
		}
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	return c.JSON(fiber.Map{"success": true, "data": newOrderResponse(*order)})
}

// ListOrders returns the requester's orders, newest first. Admins may
// pass identity=all for every order, or email=... to filter by customer.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok || !identity.Authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	filter := services.ListFilter{
		Status: c.Query("status"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}

	if identity.IsAdmin() && c.Query("identity") == "all" {
		filter.All = true
		filter.Email = c.Query("email")
	} else {
		id := identity.UserID
		filter.UserID = &id
		filter.Email = identity.Email
	}

	orders, total, err := h.orders.List(filter)
	if err != nil {
		return err
	}

	result := make([]orderResponse, len(orders))
	for i, order := range orders {
		result[i] = newOrderResponse(order)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateOrder applies a status or payment-status transition. Illegal
// transitions are rejected with the attempted pair named and the order
// left untouched. Admin only.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" && req.PaymentStatus == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	order, err := h.orders.UpdateStatus(c.Params("code"), services.StatusPatch{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": newOrderResponse(*order)})
}

// DeleteOrder removes an order. Deleting an absent code reports not
// found, so retries are harmless. Admin only.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.Params("code")); err != nil {
		return mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
