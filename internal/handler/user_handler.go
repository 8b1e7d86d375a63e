package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/model"
	"digistore/internal/service"
)

// UserHandler bundles the admin user and dashboard handlers.
type UserHandler struct {
	svc   service.UserService
	stats service.StatsService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, stats service.StatsService) *UserHandler {
	return &UserHandler{svc: svc, stats: stats}
}

// UpdateRoleRequest changes the role of a user.
type UpdateRoleRequest struct {
	Role model.Role `json:"role" validate:"required,oneof=customer admin"`
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.UserPage
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, err := h.svc.ListUsers(c.Request().Context(), queryInt(c, "page", 1), queryInt(c, "limit", 0))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateRole godoc
// @Summary Change the role of a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateRoleRequest true "Role"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateRole(c.Request().Context(), claims.UserID, id, req.Role)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteUser(c.Request().Context(), claims.UserID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats godoc
// @Summary Dashboard figures
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.StoreStats
// @Router /admin/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.stats.Summary(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
