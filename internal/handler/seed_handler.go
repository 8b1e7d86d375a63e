package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"digistore/internal/errors"
	"digistore/internal/service"
)

const catalogFetchTimeout = 30 * time.Second

// SeedHandler handles catalog import endpoints.
type SeedHandler struct {
	catalogService service.CatalogService
	client         *http.Client
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(catalogService service.CatalogService) *SeedHandler {
	return &SeedHandler{
		catalogService: catalogService,
		client:         &http.Client{Timeout: catalogFetchTimeout},
	}
}

// ImportCatalog godoc
// @Summary Import a catalog document
// @Description Upserts categories and products by slug. With ?url= the document is fetched from that address instead of the body.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param url query string false "Catalog URL"
// @Param request body service.Catalog false "Catalog"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /admin/catalog/import [post]
func (h *SeedHandler) ImportCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	var catalog *service.Catalog
	if url := c.QueryParam("url"); url != "" {
		fetched, err := service.FetchCatalog(ctx, h.client, url)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "CATALOG_FETCH_FAILED",
			})
		}
		catalog = fetched
	} else {
		catalog = &service.Catalog{}
		if err := c.Bind(catalog); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid request body",
				Code:  "INVALID_REQUEST",
			})
		}
	}

	if err := c.Validate(catalog); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	result, err := h.catalogService.Import(ctx, catalog)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, result)
}
