package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"digistore/internal/auth"
	"digistore/internal/cache"
	"digistore/internal/config"
	"digistore/internal/db"
	"digistore/internal/repository"
	"digistore/internal/service"
)

const (
	fetchTimeout = 30 * time.Second
	adminName    = "Administrator"
)

//go:embed catalog.json
var defaultCatalog []byte

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	catalog, err := loadCatalog(ctx, cfg.SeedURL)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, cacheClient)

	log.Println("Importing catalog into database...")
	result, err := catalogService.Import(ctx, catalog)
	if err != nil {
		log.Fatalf("Failed to import catalog: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Categories created: %d, updated: %d", result.CategoriesCreated, result.CategoriesUpdated)
	log.Printf("  - Products created: %d, updated: %d", result.ProductsCreated, result.ProductsUpdated)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret),
		auth.NewTokenStore(cacheClient),
	)
	admin, err := authService.EnsureAdmin(ctx, adminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}
	log.Printf("  - Admin user ready: %s (id %d)", admin.Email, admin.ID)
}

// loadCatalog fetches the catalog from url, or decodes the embedded one when url is empty.
func loadCatalog(ctx context.Context, url string) (*service.Catalog, error) {
	var (
		catalog *service.Catalog
		err     error
	)
	if url != "" {
		log.Printf("Fetching catalog from: %s", url)
		catalog, err = service.FetchCatalog(ctx, &http.Client{Timeout: fetchTimeout}, url)
	} else {
		catalog, err = service.DecodeCatalog(bytes.NewReader(defaultCatalog))
	}
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}
