package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"digistore/internal/model"
	"digistore/internal/service"
)

// ProductHandler handles catalog product endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// OptionsRequest replaces the option set of a product.
type OptionsRequest struct {
	Options []model.ProductOption `json:"options"`
}

// PriceRequest asks for the unit price of an option selection.
type PriceRequest struct {
	SelectedOptions model.SelectedOptions `json:"selectedOptions"`
}

// List godoc
// @Summary List active products
// @Tags products
// @Produce json
// @Param category query string false "Category slug"
// @Param q query string false "Search text"
// @Param featured query bool false "Only featured products"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.ProductPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	return h.list(c, false)
}

// AdminList godoc
// @Summary List all products including inactive ones
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category slug"
// @Param q query string false "Search text"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.ProductPage
// @Router /admin/products [get]
func (h *ProductHandler) AdminList(c echo.Context) error {
	return h.list(c, true)
}

func (h *ProductHandler) list(c echo.Context, includeInactive bool) error {
	query := service.ProductQuery{
		CategorySlug:    c.QueryParam("category"),
		Query:           c.QueryParam("q"),
		IncludeInactive: includeInactive,
		Page:            queryInt(c, "page", 1),
		Limit:           queryInt(c, "limit", 0),
	}
	if featured, err := strconv.ParseBool(c.QueryParam("featured")); err == nil {
		query.Featured = &featured
	}

	page, err := h.productService.List(c.Request().Context(), query)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetBySlug godoc
// @Summary Get a product with its options
// @Tags products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{slug} [get]
func (h *ProductHandler) GetBySlug(c echo.Context) error {
	product, err := h.productService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// QuotePrice godoc
// @Summary Resolve the unit price of an option selection
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body PriceRequest true "Selected options"
// @Success 200 {object} service.PriceQuote
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/price [post]
func (h *ProductHandler) QuotePrice(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req PriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	quote, err := h.productService.QuotePrice(c.Request().Context(), id, req.SelectedOptions)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, quote)
}

// Create godoc
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProductInput true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req service.ProductInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Description Options are replaced only when the body carries an options array.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body service.ProductInput true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), id, req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceOptions godoc
// @Summary Replace the option set of a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body OptionsRequest true "Options"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id}/options [put]
func (h *ProductHandler) ReplaceOptions(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req OptionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.ReplaceOptions(c.Request().Context(), id, req.Options)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, product)
}
