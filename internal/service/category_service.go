package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"digistore/internal/cache"
	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
	"digistore/internal/slugs"
)

const categoryProductsLimit = 200

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=140"`
	Description string `json:"description" validate:"max=2000"`
	Icon        string `json:"icon" validate:"max=255"`
	Image       string `json:"image" validate:"max=1024"`
	SortOrder   int    `json:"sortOrder"`
}

// CategoryDetail is a category together with its active products.
type CategoryDetail struct {
	model.Category
	Products []model.Product `json:"products"`
}

// CategoryService manages storefront categories.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*CategoryDetail, error)
	Create(ctx context.Context, input CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
	cache       *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, productRepo: productRepo, cache: cache}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return cachedJSON(ctx, s.cache, catalogCachePrefix+"categories", func() ([]model.Category, error) {
		categories, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		return categories, nil
	})
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*CategoryDetail, error) {
	return cachedJSON(ctx, s.cache, catalogCachePrefix+"category:"+slug, func() (*CategoryDetail, error) {
		category, err := s.repo.FindBySlug(ctx, slug)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		products, _, err := s.productRepo.List(ctx, repository.ProductFilter{
			CategoryID: category.ID,
			ActiveOnly: true,
			Limit:      categoryProductsLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("list category products: %w", err)
		}
		return &CategoryDetail{Category: *category, Products: products}, nil
	})
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	slug, err := s.resolveSlug(ctx, input, 0)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Slug: slug}
	applyCategoryInput(category, input)

	if err := s.repo.Create(ctx, category); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugConflict
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	// The slug only changes when one is given explicitly; renaming keeps existing links valid.
	if input.Slug != "" && slugs.Make(input.Slug) != category.Slug {
		slug, err := s.resolveSlug(ctx, input, id)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	applyCategoryInput(category, input)

	if err := s.repo.Update(ctx, category); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrSlugConflict
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if n > 0 {
		return errors.ErrCategoryInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCategoryNotFound
		}
		// A product added after the count still blocks the delete.
		if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
			return errors.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	invalidateCatalog(ctx, s.cache)
	return nil
}

// resolveSlug honours an explicit slug exactly and derives a free one from the name otherwise.
func (s *categoryService) resolveSlug(ctx context.Context, input CategoryInput, excludeID uint) (string, error) {
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, excludeID)
	}
	return resolveSlug(ctx, input.Slug, input.Name, exists)
}

func resolveSlug(ctx context.Context, explicit, name string, exists slugs.ExistsFunc) (string, error) {
	if explicit != "" {
		slug := slugs.Make(explicit)
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return "", errors.ErrSlugConflict
		}
		return slug, nil
	}
	return slugs.Unique(ctx, slugs.Make(name), exists)
}

func applyCategoryInput(category *model.Category, input CategoryInput) {
	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description
	category.Icon = input.Icon
	category.Image = input.Image
	category.SortOrder = input.SortOrder
}
