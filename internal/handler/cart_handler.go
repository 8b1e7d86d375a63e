package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/service"
)

// CartHandler handles cart endpoints for signed-in users and guest sessions.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// UpdateCartItemRequest changes the quantity of a cart line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Get godoc
// @Summary Get the current cart
// @Tags cart
// @Produce json
// @Success 200 {object} service.CartView
// @Router /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.cartService.GetCart(c.Request().Context(), cartOwner(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body service.CartItemInput true "Cart item"
// @Success 200 {object} service.CartView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req service.CartItemInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), cartOwner(c), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem godoc
// @Summary Change the quantity of a cart item
// @Tags cart
// @Accept json
// @Produce json
// @Param id path int true "Cart item ID"
// @Param request body UpdateCartItemRequest true "Quantity"
// @Success 200 {object} service.CartView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartService.UpdateItem(c.Request().Context(), cartOwner(c), id, req.Quantity)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} service.CartView
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	cart, err := h.cartService.RemoveItem(c.Request().Context(), cartOwner(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// Clear godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} service.CartView
// @Router /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	cart, err := h.cartService.Clear(c.Request().Context(), cartOwner(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cart)
}
