package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"digistore/internal/auth"
	"digistore/internal/config"
	"digistore/internal/handler"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Category   *handler.CategoryHandler
	Product    *handler.ProductHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	User       *handler.UserHandler
	Review     *handler.ReviewHandler
	Upload     *handler.UploadHandler
	Seed       *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	// base64 inflates uploads by a third
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", cfg.MaxUploadBytes*4/3/1024+64)))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	requireAuth := echojwt.WithConfig(jwtConfig(jwtService, false))
	optionalAuth := echojwt.WithConfig(jwtConfig(jwtService, true))
	revoked := RejectRevoked(tokenStore)

	api := e.Group("/api", Session(cfg.CookieSecure))

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth, revoked)
	api.GET("/auth/me", h.Auth.Me, requireAuth, revoked)

	api.GET("/categories", h.Category.List)
	api.GET("/categories/:slug", h.Category.GetBySlug)

	api.GET("/products", h.Product.List)
	api.GET("/products/:slug", h.Product.GetBySlug)
	api.POST("/products/:id/price", h.Product.QuotePrice)
	api.GET("/products/:id/reviews", h.Review.List)
	api.POST("/products/:id/reviews", h.Review.Create, requireAuth, revoked)

	// Cart routes serve guests through the session cookie
	cart := api.Group("/cart", optionalAuth, revoked)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateItem)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	// Secured routes (require JWT authentication)
	orders := api.Group("/orders", requireAuth, revoked)
	orders.POST("", h.Order.Place)
	orders.GET("", h.Order.ListMine)
	orders.GET("/:number", h.Order.GetMine)
	orders.POST("/:number/cancel", h.Order.CancelMine)

	admin := api.Group("/admin", requireAuth, revoked, RequireAdmin)
	admin.POST("/categories", h.Category.Create)
	admin.PUT("/categories/:id", h.Category.Update)
	admin.DELETE("/categories/:id", h.Category.Delete)

	admin.GET("/products", h.Product.AdminList)
	admin.POST("/products", h.Product.Create)
	admin.PUT("/products/:id", h.Product.Update)
	admin.DELETE("/products/:id", h.Product.Delete)
	admin.PUT("/products/:id/options", h.Product.ReplaceOptions)

	admin.GET("/orders", h.AdminOrder.List)
	admin.GET("/orders/:id", h.AdminOrder.Get)
	admin.PATCH("/orders/:id/status", h.AdminOrder.UpdateStatus)
	admin.POST("/orders/:id/items/:itemId/assets", h.AdminOrder.Provision)
	admin.GET("/orders/:id/logs", h.AdminOrder.Logs)

	admin.GET("/users", h.User.ListUsers)
	admin.PATCH("/users/:id/role", h.User.UpdateRole)
	admin.DELETE("/users/:id", h.User.DeleteUser)
	admin.GET("/stats", h.User.Stats)

	admin.POST("/uploads", h.Upload.Upload)
	admin.POST("/catalog/import", h.Seed.ImportCatalog)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
