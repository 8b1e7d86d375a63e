package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"digistore/docs"
	"digistore/internal/auth"
	"digistore/internal/cache"
	"digistore/internal/config"
	"digistore/internal/db"
	"digistore/internal/handler"
	"digistore/internal/repository"
	"digistore/internal/router"
	"digistore/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Digistore API
// @version 1.0
// @description Digital-goods storefront API: catalog, carts, checkout, order provisioning and administration.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("redis unavailable, continuing without cache: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	orderLogRepo := repository.NewOrderLogRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, cacheClient)
	productService := service.NewProductService(productRepo, categoryRepo, cacheClient)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, orderLogRepo, cartRepo, cacheClient, cfg.PendingOrderTTL)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	uploadService := service.NewUploadService(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxUploadBytes)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, cacheClient)
	statsService := service.NewStatsService(userRepo, productRepo, orderRepo)

	go orderService.RunSweeper(ctx, cfg.OrderSweepInterval)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, jwtService, tokenStore, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService, cartService, cfg.CookieSecure),
		Category:   handler.NewCategoryHandler(categoryService),
		Product:    handler.NewProductHandler(productService),
		Cart:       handler.NewCartHandler(cartService),
		Order:      handler.NewOrderHandler(orderService),
		AdminOrder: handler.NewAdminOrderHandler(orderService),
		User:       handler.NewUserHandler(userService, statsService),
		Review:     handler.NewReviewHandler(reviewService),
		Upload:     handler.NewUploadHandler(uploadService),
		Seed:       handler.NewSeedHandler(catalogService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	orderService.Close()
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
