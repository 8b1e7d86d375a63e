package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"digistore/internal/model"
	"digistore/internal/repository"
)

const (
	lowStockThreshold = 5
	lowStockLimit     = 20
)

// StoreStats is the admin dashboard summary.
type StoreStats struct {
	Users          int64                       `json:"users"`
	Products       int64                       `json:"products"`
	Orders         int64                       `json:"orders"`
	Revenue        decimal.Decimal             `json:"revenue"`
	OrdersByStatus map[model.OrderStatus]int64 `json:"ordersByStatus"`
	LowStock       []model.Product             `json:"lowStock"`
}

// StatsService computes dashboard figures.
type StatsService interface {
	Summary(ctx context.Context) (*StoreStats, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) StatsService {
	return &statsService{userRepo: userRepo, productRepo: productRepo, orderRepo: orderRepo}
}

// Summary counts users, products and orders. Revenue covers processing and completed orders.
func (s *statsService) Summary(ctx context.Context) (*StoreStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	revenue, err := s.orderRepo.SumTotals(ctx, []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	lowStock, err := s.productRepo.ListLowStock(ctx, lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	var orders int64
	for _, n := range byStatus {
		orders += n
	}
	return &StoreStats{
		Users:          users,
		Products:       products,
		Orders:         orders,
		Revenue:        revenue,
		OrdersByStatus: byStatus,
		LowStock:       lowStock,
	}, nil
}
