package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/cache"
	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	CategoryID     uint                  `json:"categoryId" validate:"required"`
	Name           string                `json:"name" validate:"required,max=255"`
	Slug           string                `json:"slug" validate:"omitempty,max=255"`
	SKU            string                `json:"sku" validate:"omitempty,max=100"`
	Description    string                `json:"description"`
	Price          decimal.Decimal       `json:"price"`
	CompareAtPrice *decimal.Decimal      `json:"compareAtPrice"`
	Stock          int                   `json:"stock" validate:"gte=0"`
	Images         []string              `json:"images" validate:"max=20,dive,max=1024"`
	Tags           []string              `json:"tags" validate:"max=30,dive,max=50"`
	DeliveryType   model.DeliveryType    `json:"deliveryType" validate:"omitempty,oneof=account redeem_code manual"`
	Active         *bool                 `json:"active"`
	Featured       bool                  `json:"featured"`
	Options        []model.ProductOption `json:"options" validate:"omitempty,dive"`
}

// ProductQuery filters the product listing.
type ProductQuery struct {
	CategorySlug    string
	Query           string
	Featured        *bool
	IncludeInactive bool
	Page            int
	Limit           int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// PriceQuote is the resolved price of a product for a given option selection.
type PriceQuote struct {
	ProductID       uint                  `json:"productId"`
	BasePrice       decimal.Decimal       `json:"basePrice"`
	UnitPrice       decimal.Decimal       `json:"unitPrice"`
	SelectedOptions model.SelectedOptions `json:"selectedOptions"`
}

// ProductService manages the product catalog.
type ProductService interface {
	List(ctx context.Context, query ProductQuery) (*ProductPage, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, input ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	ReplaceOptions(ctx context.Context, id uint, options []model.ProductOption) (*model.Product, error)
	QuotePrice(ctx context.Context, id uint, selected model.SelectedOptions) (*PriceQuote, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo, cache: cache}
}

func (s *productService) List(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)
	filter := repository.ProductFilter{
		Query:      query.Query,
		Featured:   query.Featured,
		ActiveOnly: !query.IncludeInactive,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}

	if query.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, query.CategorySlug)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		filter.CategoryID = category.ID
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

// GetBySlug returns an active product for the storefront.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return cachedJSON(ctx, s.cache, catalogCachePrefix+"product:"+slug, func() (*model.Product, error) {
		product, err := s.repo.FindBySlug(ctx, slug)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrProductNotFound
			}
			return nil, fmt.Errorf("find product: %w", err)
		}
		if !product.Active {
			return nil, errors.ErrProductNotFound
		}
		return product, nil
	})
}

// GetByID returns a product regardless of its active flag.
func (s *productService) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := s.checkInput(ctx, input); err != nil {
		return nil, err
	}
	if err := ValidateOptionSet(input.Options); err != nil {
		return nil, err
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, 0)
	}
	slug, err := resolveSlug(ctx, input.Slug, input.Name, exists)
	if err != nil {
		return nil, err
	}

	product := &model.Product{Slug: slug, Active: true}
	applyProductInput(product, input)
	for i := range input.Options {
		input.Options[i].ID = 0
	}
	product.Options = input.Options

	if err := s.repo.Create(ctx, product); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugConflict
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return s.GetByID(ctx, product.ID)
}

// Update saves product fields. Options are only replaced when the input carries some.
func (s *productService) Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(ctx, input); err != nil {
		return nil, err
	}

	if input.Slug != "" && input.Slug != product.Slug {
		exists := func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.SlugExists(ctx, candidate, id)
		}
		slug, err := resolveSlug(ctx, input.Slug, input.Name, exists)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	applyProductInput(product, input)
	product.Category = nil

	if err := s.repo.Update(ctx, product); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugConflict
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	if input.Options != nil {
		return s.ReplaceOptions(ctx, id, input.Options)
	}
	invalidateCatalog(ctx, s.cache)
	return s.GetByID(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return nil
}

func (s *productService) ReplaceOptions(ctx context.Context, id uint, options []model.ProductOption) (*model.Product, error) {
	if err := ValidateOptionSet(options); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceOptions(ctx, id, options); err != nil {
		return nil, fmt.Errorf("replace options: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return s.GetByID(ctx, id)
}

func (s *productService) QuotePrice(ctx context.Context, id uint, selected model.SelectedOptions) (*PriceQuote, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, errors.ErrProductNotFound
	}
	unit, normalized, err := ResolveUnitPrice(product, selected)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{
		ProductID:       product.ID,
		BasePrice:       product.Price,
		UnitPrice:       unit,
		SelectedOptions: normalized,
	}, nil
}

func (s *productService) checkInput(ctx context.Context, input ProductInput) error {
	if input.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", errors.ErrInvalidProduct)
	}
	if input.CompareAtPrice != nil && input.CompareAtPrice.IsNegative() {
		return fmt.Errorf("compare-at price must not be negative: %w", errors.ErrInvalidProduct)
	}
	if input.Stock < 0 {
		return fmt.Errorf("stock must not be negative: %w", errors.ErrInvalidProduct)
	}
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}

func applyProductInput(product *model.Product, input ProductInput) {
	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price.Round(2)
	product.CompareAtPrice = input.CompareAtPrice
	product.Stock = input.Stock
	product.Images = input.Images
	product.Tags = input.Tags
	product.Featured = input.Featured
	product.DeliveryType = input.DeliveryType
	if product.DeliveryType == "" {
		product.DeliveryType = model.DeliveryManual
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		product.SKU = &sku
	} else {
		product.SKU = nil
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
}
