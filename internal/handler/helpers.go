package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"digistore/internal/auth"
	"digistore/internal/errors"
	"digistore/internal/service"
)

const (
	// UserContextKey is where the echo-jwt middleware stores the parsed token.
	UserContextKey = "user"
	// SessionContextKey is where the session middleware stores the guest cart session id.
	SessionContextKey = "session_id"
)

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

func domainError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil {
		return v
	}
	return def
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(c echo.Context) (*auth.Claims, bool) {
	token, ok := c.Get(UserContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}

func requireClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}
	return claims, nil
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(SessionContextKey).(string)
	return id
}

// cartOwner resolves the cart of the caller: the user's cart when signed in, the session cart otherwise.
func cartOwner(c echo.Context) service.CartOwner {
	if claims, ok := ClaimsFromContext(c); ok {
		return service.CartOwner{UserID: claims.UserID}
	}
	return service.CartOwner{SessionID: sessionID(c)}
}
