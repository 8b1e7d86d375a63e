package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// ReviewService manages product reviews.
type ReviewService interface {
	List(ctx context.Context, productID uint) ([]model.Review, error)
	Create(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error)
}

type reviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{repo: repo, productRepo: productRepo}
}

func (s *reviewService) List(ctx context.Context, productID uint) ([]model.Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Create(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", errors.ErrInvalidReview)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.Active {
		return nil, errors.ErrProductNotFound
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrReviewExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}
