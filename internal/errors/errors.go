package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryInUse is returned when deleting a category that still has products.
	ErrCategoryInUse = errors.New("category still has products")
	// ErrProductNotFound is returned when a product is not found or inactive.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct is returned when product fields fail business validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrProductUnavailable is returned when an inactive product is added to a cart or order.
	ErrProductUnavailable = errors.New("product is not available")
	// ErrInsufficientStock is returned when requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidOption is returned when selected options do not match the product's option set.
	ErrInvalidOption = errors.New("invalid product option")
	// ErrInvalidOptionSet is returned when an admin-defined option set is malformed.
	ErrInvalidOptionSet = errors.New("invalid option set")
	// ErrSlugConflict is returned when a slug or SKU is already taken.
	ErrSlugConflict = errors.New("slug or sku already in use")
	// ErrCartItemNotFound is returned when a cart item does not belong to the caller's cart.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned when a quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrEmptyOrder is returned when an order has no items or a non-positive total.
	ErrEmptyOrder = errors.New("order total must be greater than zero")
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound is returned when an order item is not part of the order.
	ErrOrderItemNotFound = errors.New("order item not found")
	// ErrInvalidTransition is returned when an order status change is not allowed.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderNotProvisionable is returned when assets are attached to an order that is not processing.
	ErrOrderNotProvisionable = errors.New("order is not awaiting delivery")
	// ErrInvalidAsset is returned when a delivered asset is missing its credentials or code.
	ErrInvalidAsset = errors.New("invalid delivery asset")
	// ErrInvalidCard is returned when card validation fails.
	ErrInvalidCard = errors.New("invalid card")
	// ErrInvalidPaymentMethod is returned for unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrInvalidReview is returned when a rating is outside 1..5.
	ErrInvalidReview = errors.New("invalid review")
	// ErrReviewExists is returned when a user reviews the same product twice.
	ErrReviewExists = errors.New("product already reviewed")
	// ErrInvalidUpload is returned when an uploaded image cannot be decoded or has a forbidden type.
	ErrInvalidUpload = errors.New("invalid image upload")
	// ErrUploadTooLarge is returned when an uploaded image exceeds the size limit.
	ErrUploadTooLarge = errors.New("image exceeds size limit")
	// ErrInvalidRole is returned for roles other than customer and admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrForbidden is returned when the caller may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{ErrCartItemNotFound, http.StatusNotFound, "CART_ITEM_NOT_FOUND"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrOrderItemNotFound, http.StatusNotFound, "ORDER_ITEM_NOT_FOUND"},
	{ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
	{ErrSlugConflict, http.StatusConflict, "SLUG_CONFLICT"},
	{ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
	{ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{ErrOrderNotProvisionable, http.StatusConflict, "ORDER_NOT_PROVISIONABLE"},
	{ErrReviewExists, http.StatusConflict, "REVIEW_EXISTS"},
	{ErrInvalidProduct, http.StatusBadRequest, "INVALID_PRODUCT"},
	{ErrProductUnavailable, http.StatusBadRequest, "PRODUCT_UNAVAILABLE"},
	{ErrInvalidOption, http.StatusBadRequest, "INVALID_OPTION"},
	{ErrInvalidOptionSet, http.StatusBadRequest, "INVALID_OPTION_SET"},
	{ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
	{ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
	{ErrInvalidAsset, http.StatusBadRequest, "INVALID_ASSET"},
	{ErrInvalidCard, http.StatusBadRequest, "INVALID_CARD"},
	{ErrInvalidPaymentMethod, http.StatusBadRequest, "INVALID_PAYMENT_METHOD"},
	{ErrInvalidReview, http.StatusBadRequest, "INVALID_REVIEW"},
	{ErrInvalidUpload, http.StatusBadRequest, "INVALID_UPLOAD"},
	{ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
	{ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything that does not wrap a domain error becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
