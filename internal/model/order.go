package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentMethod is the payment option picked during checkout.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCrypto       PaymentMethod = "crypto"
	PaymentPayPal       PaymentMethod = "paypal"
)

// ContactInfo is the information step of checkout, stored as a JSON blob on the order.
type ContactInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Order is a placed purchase.
type Order struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	OrderNumber      string          `json:"order_number" gorm:"size:32;uniqueIndex;not null"`
	UserID           uint            `json:"user_id" gorm:"not null;index"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	PaymentMethod    PaymentMethod   `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentReference string          `json:"payment_reference,omitempty" gorm:"size:64"`
	Contact          ContactInfo     `json:"contact" gorm:"type:text;serializer:json"`
	Notes            string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// AssetType is the kind of provisioned digital asset.
type AssetType string

const (
	AssetAccount    AssetType = "account"
	AssetRedeemCode AssetType = "redeem_code"
)

// DeliveredAsset is a credential or code an admin provisioned for an order item.
type DeliveredAsset struct {
	Type     AssetType `json:"type"`
	Username string    `json:"username,omitempty"`
	Password string    `json:"password,omitempty"`
	Code     string    `json:"code,omitempty"`
	Note     string    `json:"note,omitempty"`
}

// OrderItem snapshots a product line at purchase time.
type OrderItem struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	OrderID         uint             `json:"order_id" gorm:"not null;index"`
	ProductID       uint             `json:"product_id" gorm:"not null;index"`
	ProductName     string           `json:"product_name" gorm:"size:255;not null"`
	UnitPrice       decimal.Decimal  `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Quantity        int              `json:"quantity" gorm:"not null"`
	LineTotal       decimal.Decimal  `json:"line_total" gorm:"type:decimal(12,2);not null"`
	SelectedOptions SelectedOptions  `json:"selected_options" gorm:"type:text;serializer:json"`
	Assets          []DeliveredAsset `json:"assets,omitempty" gorm:"type:text;serializer:json"`
	DeliveredAt     *time.Time       `json:"delivered_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Delivered reports whether assets were provisioned for the item.
func (i *OrderItem) Delivered() bool {
	return len(i.Assets) > 0
}
