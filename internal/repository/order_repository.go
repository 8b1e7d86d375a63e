package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digistore/internal/model"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status model.OrderStatus
	UserID uint
	Offset int
	Limit  int
}

// OrderRepository defines order persistence operations, including the stock
// mutations that must share a transaction with order placement.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
	UpdateItem(ctx context.Context, item *model.OrderItem) error
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	SumTotals(ctx context.Context, statuses []model.OrderStatus) (decimal.Decimal, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error
	LastOrderNumberForUpdate(ctx context.Context) (string, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Order, error)
	FindProductForUpdate(ctx context.Context, productID uint) (*model.Product, error)
	DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error)
	RestoreStock(ctx context.Context, productID uint, quantity int) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// Create inserts an order together with its items.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("User").Create(order).Error
}

// FindByID finds an order by ID with items and buyer.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderItems).Preload("User").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its public order number.
func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderItems).
		Where("order_number = ?", number).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List lists orders newest first.
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var (
		orders []model.Order
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Items", orderItems).Preload("User").Order("id desc").
		Offset(filter.Offset).Limit(filter.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus sets the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateItem saves an order item (assets and delivery time).
func (r *orderRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// ListStalePending lists pending orders created before the given time.
func (r *orderRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Where("status = ? AND created_at < ?", model.OrderStatusPending, before).
		Order("id asc").Limit(limit).Find(&orders).Error
	return orders, err
}

// CountByStatus counts orders per status.
func (r *orderRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumTotals sums order totals over the given statuses.
func (r *orderRepository) SumTotals(ctx context.Context, statuses []model.OrderStatus) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(total)").Where("status IN ?", statuses).Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &orderRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

// LastOrderNumberForUpdate returns the most recent order number, locking its row.
// An empty string means no order exists yet.
func (r *orderRepository) LastOrderNumberForUpdate(ctx context.Context) (string, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "order_number").Order("id desc").First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return order.OrderNumber, nil
}

// FindByIDForUpdate finds an order by ID with row-level lock, items preloaded.
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", orderItems).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindProductForUpdate finds a product by ID with row-level lock, options preloaded.
func (r *orderRepository) FindProductForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Options", withOptions).First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts quantity from stock only when enough stock remains.
// It reports false when the guard rejected the update.
func (r *orderRepository) DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreStock adds quantity back to stock, soft-deleted products included.
func (r *orderRepository) RestoreStock(ctx context.Context, productID uint, quantity int) error {
	return r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}
