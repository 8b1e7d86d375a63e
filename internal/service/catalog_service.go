package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"digistore/internal/cache"
	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
	"digistore/internal/slugs"
)

// Catalog is the import document: categories with their products and option sets.
type Catalog struct {
	Categories []CatalogCategory `json:"categories" validate:"required,min=1"`
}

// CatalogCategory is a category entry of an import document.
type CatalogCategory struct {
	CategoryInput
	Products []CatalogProduct `json:"products"`
}

// CatalogProduct is a product entry of an import document. Its category comes from the parent entry.
type CatalogProduct struct {
	ProductInput
}

// ImportResult counts what an import changed.
type ImportResult struct {
	CategoriesCreated int `json:"categoriesCreated"`
	CategoriesUpdated int `json:"categoriesUpdated"`
	ProductsCreated   int `json:"productsCreated"`
	ProductsUpdated   int `json:"productsUpdated"`
}

// CatalogService imports catalog documents. Imports upsert by slug and can be re-run.
type CatalogService interface {
	Import(ctx context.Context, catalog *Catalog) (*ImportResult, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cache        *cache.Client
}

// NewCatalogService creates a new catalog import service.
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, cache *cache.Client) CatalogService {
	return &catalogService{categoryRepo: categoryRepo, productRepo: productRepo, cache: cache}
}

func (s *catalogService) Import(ctx context.Context, catalog *Catalog) (*ImportResult, error) {
	result := &ImportResult{}
	defer invalidateCatalog(ctx, s.cache)

	for _, entry := range catalog.Categories {
		if strings.TrimSpace(entry.Name) == "" {
			return result, fmt.Errorf("category without name: %w", errors.ErrInvalidProduct)
		}
		category, created, err := s.upsertCategory(ctx, entry.CategoryInput)
		if err != nil {
			return result, err
		}
		if created {
			result.CategoriesCreated++
		} else {
			result.CategoriesUpdated++
		}

		for _, p := range entry.Products {
			p.CategoryID = category.ID
			created, err := s.upsertProduct(ctx, p.ProductInput)
			if err != nil {
				return result, err
			}
			if created {
				result.ProductsCreated++
			} else {
				result.ProductsUpdated++
			}
		}
	}
	return result, nil
}

func (s *catalogService) upsertCategory(ctx context.Context, input CategoryInput) (*model.Category, bool, error) {
	slug := slugs.Make(firstNonEmpty(input.Slug, input.Name))

	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find category %s: %w", slug, err)
	}

	if category != nil {
		applyCategoryInput(category, input)
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return nil, false, fmt.Errorf("update category %s: %w", slug, err)
		}
		return category, false, nil
	}

	category = &model.Category{Slug: slug}
	applyCategoryInput(category, input)
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, false, fmt.Errorf("create category %s: %w", slug, err)
	}
	return category, true, nil
}

func (s *catalogService) upsertProduct(ctx context.Context, input ProductInput) (bool, error) {
	slug := slugs.Make(firstNonEmpty(input.Slug, input.Name))
	if strings.TrimSpace(input.Name) == "" || input.Price.IsNegative() || input.Stock < 0 {
		return false, fmt.Errorf("product %s: %w", slug, errors.ErrInvalidProduct)
	}
	if err := ValidateOptionSet(input.Options); err != nil {
		return false, fmt.Errorf("product %s: %w", slug, err)
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find product %s: %w", slug, err)
	}

	if product != nil {
		applyProductInput(product, input)
		product.Category = nil
		if err := s.productRepo.Update(ctx, product); err != nil {
			return false, fmt.Errorf("update product %s: %w", slug, err)
		}
		if err := s.productRepo.ReplaceOptions(ctx, product.ID, input.Options); err != nil {
			return false, fmt.Errorf("replace options of %s: %w", slug, err)
		}
		return false, nil
	}

	product = &model.Product{Slug: slug, Active: true}
	applyProductInput(product, input)
	for i := range input.Options {
		input.Options[i].ID = 0
		input.Options[i].ProductID = 0
	}
	product.Options = input.Options
	if err := s.productRepo.Create(ctx, product); err != nil {
		// The slug may still belong to a deleted product.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return false, fmt.Errorf("product %s: %w", slug, errors.ErrSlugConflict)
		}
		return false, fmt.Errorf("create product %s: %w", slug, err)
	}
	return true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DecodeCatalog parses an import document.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &catalog, nil
}

// FetchCatalog downloads an import document.
func FetchCatalog(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status code: %d", resp.StatusCode)
	}
	return DecodeCatalog(resp.Body)
}
