package model

import "time"

// Cart holds a pending purchase list owned either by a user or by a guest session.
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    *uint      `json:"user_id,omitempty" gorm:"uniqueIndex"`
	SessionID *string    `json:"-" gorm:"size:64;uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CartID          uint            `json:"cart_id" gorm:"not null;index"`
	ProductID       uint            `json:"product_id" gorm:"not null;index"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	SelectedOptions SelectedOptions `json:"selected_options" gorm:"type:text;serializer:json"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
