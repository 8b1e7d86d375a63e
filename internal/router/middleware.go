package router

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"digistore/internal/auth"
	"digistore/internal/errors"
	"digistore/internal/handler"
)

const (
	sessionCookie = "cart_session"
	sessionMaxAge = 30 * 24 * time.Hour
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
	Error: "authentication required",
	Code:  "UNAUTHORIZED",
})

// jwtConfig validates access tokens from the Authorization header or the access_token cookie.
// Optional auth lets anonymous requests through as guests.
// Refresh tokens are rejected here so they only work against /auth/refresh.
func jwtConfig(jwtService *auth.JWTService, optional bool) echojwt.Config {
	return echojwt.Config{
		ContextKey:  handler.UserContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:access_token",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return jwtService.ParseAccessToken(raw)
		},
		ContinueOnIgnoredError: optional,
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return errUnauthorized
		},
	}
}

// RejectRevoked refuses access tokens that were blacklisted on logout.
func RejectRevoked(store auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.ClaimsFromContext(c)
			if !ok || claims.ID == "" {
				return next(c)
			}
			revoked, err := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				log.Printf("blacklist lookup for token %s: %v", claims.ID, err)
			}
			if revoked {
				return errUnauthorized
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects callers without the admin role. It must run after the JWT middleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := handler.ClaimsFromContext(c)
		if !ok {
			return errUnauthorized
		}
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin role required",
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

// Session issues the guest cart cookie and exposes its id to handlers.
func Session(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(handler.SessionContextKey, id)
			return next(c)
		}
	}
}
