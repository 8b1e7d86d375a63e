package repository

import (
	"context"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// CartRepository defines cart persistence operations.
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, cartID uint) error
	FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error)
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateItem(ctx context.Context, item *model.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uint) error
	Clear(ctx context.Context, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) withItems() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product").Preload("Items.Product.Options")
}

// FindByUserID finds the cart linked to a user, items and products preloaded.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.withItems().WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindBySessionID finds the cart linked to a guest session, items and products preloaded.
func (r *cartRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.withItems().WithContext(ctx).Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create creates an empty cart.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Create(cart).Error
}

// Delete removes a cart and its items.
func (r *cartRepository) Delete(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, cartID).Error
	})
}

// FindItem finds an item scoped to its cart.
func (r *cartRepository) FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem inserts a cart item.
func (r *cartRepository) AddItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// UpdateItem saves quantity and options of a cart item.
func (r *cartRepository) UpdateItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

// DeleteItem removes an item scoped to its cart.
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear removes every item of a cart.
func (r *cartRepository) Clear(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}
