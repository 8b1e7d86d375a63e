package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/service"
)

// ReviewHandler handles product review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewRequest is a customer review of a product.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// List godoc
// @Summary List reviews of a product
// @Tags reviews
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {array} model.Review
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.List(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create godoc
// @Summary Review a product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(c.Request().Context(), claims.UserID, id, req.Rating, req.Comment)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, review)
}
