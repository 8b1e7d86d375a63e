package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/model"
	"digistore/internal/service"
)

// OrderHandler handles checkout and order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CheckoutItem is one product line of a checkout.
type CheckoutItem struct {
	ProductID       uint                  `json:"productId" validate:"required"`
	Quantity        int                   `json:"quantity" validate:"required,gt=0,lte=100"`
	SelectedOptions model.SelectedOptions `json:"selectedOptions"`
}

// ContactRequest is the information step of checkout.
type ContactRequest struct {
	FullName   string `json:"fullName" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=40"`
	Address    string `json:"address" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=120"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=80"`
}

// CheckoutRequest places an order. Card details are required for card payments.
type CheckoutRequest struct {
	Items         []CheckoutItem       `json:"items" validate:"required,min=1,max=50,dive"`
	Contact       ContactRequest       `json:"contact"`
	PaymentMethod model.PaymentMethod  `json:"paymentMethod" validate:"required,oneof=card bank_transfer crypto paypal"`
	Card          *service.CardDetails `json:"card,omitempty"`
	Notes         string               `json:"notes" validate:"max=1000"`
}

func (r *CheckoutRequest) toInput(userID uint) service.PlaceOrderInput {
	items := make([]service.OrderLineInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.OrderLineInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions,
		})
	}
	return service.PlaceOrderInput{
		UserID: userID,
		Items:  items,
		Contact: model.ContactInfo{
			FullName:   r.Contact.FullName,
			Email:      r.Contact.Email,
			Phone:      r.Contact.Phone,
			Address:    r.Contact.Address,
			City:       r.Contact.City,
			PostalCode: r.Contact.PostalCode,
			Country:    r.Contact.Country,
		},
		PaymentMethod: r.PaymentMethod,
		Card:          r.Card,
		Notes:         r.Notes,
	}
}

// Place godoc
// @Summary Place an order
// @Description Validates stock and payment, snapshots prices and clears the caller's cart.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "Checkout"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.PlaceOrder(c.Request().Context(), req.toInput(claims.UserID))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMine godoc
// @Summary List my orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.OrderPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	page, err := h.orderService.ListMine(c.Request().Context(), claims.UserID, queryInt(c, "page", 1), queryInt(c, "limit", 0))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetMine godoc
// @Summary Get one of my orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number"
// @Success 200 {object} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{number} [get]
func (h *OrderHandler) GetMine(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetMine(c.Request().Context(), claims.UserID, c.Param("number"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelMine godoc
// @Summary Cancel one of my pending orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number"
// @Success 200 {object} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{number}/cancel [post]
func (h *OrderHandler) CancelMine(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.CancelMine(c.Request().Context(), claims.UserID, c.Param("number"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, order)
}
