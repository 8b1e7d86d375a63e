package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digistore/internal/service"
)

// UploadHandler handles admin image uploads.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadRequest carries a base64 image or data URL.
type UploadRequest struct {
	Image string `json:"image" validate:"required"`
}

// Upload godoc
// @Summary Upload an image
// @Description Accepts png, jpeg, webp or gif as base64 or a data URL and returns its public URL.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadRequest true "Image"
// @Success 201 {object} service.UploadResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /admin/uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	var req UploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.uploadService.SaveImage(c.Request().Context(), req.Image)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, result)
}
