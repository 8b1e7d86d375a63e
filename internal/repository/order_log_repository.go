package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// OrderLogRepository defines order status log persistence operations.
type OrderLogRepository interface {
	Create(ctx context.Context, log *model.OrderStatusLog) error
	CreateBatch(ctx context.Context, logs []model.OrderStatusLog) error
	ListByOrder(ctx context.Context, orderID uint) ([]model.OrderStatusLog, error)
}

type orderLogRepository struct {
	db *gorm.DB
}

// NewOrderLogRepository creates a new order log repository.
func NewOrderLogRepository(db *gorm.DB) OrderLogRepository {
	return &orderLogRepository{db: db}
}

// Create creates a new log entry.
func (r *orderLogRepository) Create(ctx context.Context, log *model.OrderStatusLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple log entries in a single statement.
func (r *orderLogRepository) CreateBatch(ctx context.Context, logs []model.OrderStatusLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListByOrder lists log entries of an order oldest first.
func (r *orderLogRepository) ListByOrder(ctx context.Context, orderID uint) ([]model.OrderStatusLog, error) {
	var logs []model.OrderStatusLog
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&logs).Error
	return logs, err
}
