package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"digistore/internal/model"
	"digistore/internal/service"
)

// AdminOrderHandler handles order management endpoints.
type AdminOrderHandler struct {
	orderService service.OrderService
}

// NewAdminOrderHandler creates a new admin order handler.
func NewAdminOrderHandler(orderService service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

// UpdateStatusRequest moves an order to another status.
type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=pending processing completed cancelled refunded"`
	Note   string            `json:"note" validate:"max=500"`
}

// ProvisionRequest attaches delivered assets to an order item.
type ProvisionRequest struct {
	Assets []model.DeliveredAsset `json:"assets" validate:"required,min=1,max=50"`
}

// List godoc
// @Summary List orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param userId query int false "Customer filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.OrderPage
// @Router /admin/orders [get]
func (h *AdminOrderHandler) List(c echo.Context) error {
	query := service.OrderQuery{
		Status: model.OrderStatus(c.QueryParam("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 0),
	}
	if userID, err := strconv.ParseUint(c.QueryParam("userId"), 10, 64); err == nil {
		query.UserID = uint(userID)
	}

	page, err := h.orderService.List(c.Request().Context(), query)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get an order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *AdminOrderHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Change the status of an order
// @Description pending -> processing|cancelled, processing -> completed|cancelled, completed -> refunded. Cancelling restores stock.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), claims.UserID, id, req.Status, req.Note)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Provision godoc
// @Summary Deliver assets for an order item
// @Description Completes the order once every item has assets.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param itemId path int true "Order item ID"
// @Param request body ProvisionRequest true "Assets"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/items/{itemId}/assets [post]
func (h *AdminOrderHandler) Provision(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return err
	}
	var req ProvisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.ProvisionItem(c.Request().Context(), claims.UserID, id, itemID, req.Assets)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Logs godoc
// @Summary Status history of an order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {array} model.OrderStatusLog
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/logs [get]
func (h *AdminOrderHandler) Logs(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	logs, err := h.orderService.Logs(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
