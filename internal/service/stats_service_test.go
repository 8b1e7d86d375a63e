package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digistore/internal/model"
)

func TestStatsService_Summary(t *testing.T) {
	users := new(MockUserRepository)
	products := new(MockProductRepository)
	orders := new(MockOrderRepository)

	users.On("Count", mock.Anything).Return(int64(12), nil)
	products.On("Count", mock.Anything).Return(int64(30), nil)
	orders.On("CountByStatus", mock.Anything).Return(map[model.OrderStatus]int64{
		model.OrderStatusPending:   2,
		model.OrderStatusCompleted: 5,
	}, nil)
	orders.On("SumTotals", mock.Anything, []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusCompleted}).
		Return(decimal.RequireFromString("420.50"), nil)
	products.On("ListLowStock", mock.Anything, lowStockThreshold, lowStockLimit).Return([]model.Product{{ID: 4, Stock: 1}}, nil)

	svc := NewStatsService(users, products, orders)
	stats, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Users)
	assert.Equal(t, int64(30), stats.Products)
	assert.Equal(t, int64(7), stats.Orders)
	assert.Equal(t, "420.50", stats.Revenue.StringFixed(2))
	assert.Len(t, stats.LowStock, 1)
}
