package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryType describes how a purchased digital good reaches the customer.
type DeliveryType string

const (
	DeliveryAccount    DeliveryType = "account"
	DeliveryRedeemCode DeliveryType = "redeem_code"
	DeliveryManual     DeliveryType = "manual"
)

// Product is a digital good offered in the storefront.
type Product struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	CategoryID     uint             `json:"category_id" gorm:"not null;index"`
	Name           string           `json:"name" gorm:"size:255;not null"`
	Slug           string           `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	SKU            *string          `json:"sku,omitempty" gorm:"size:100;uniqueIndex"`
	Description    string           `json:"description" gorm:"type:text"`
	Price          decimal.Decimal  `json:"price" gorm:"type:decimal(12,2);not null"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty" gorm:"type:decimal(12,2)"`
	Stock          int              `json:"stock" gorm:"not null;default:0"`
	Images         []string         `json:"images" gorm:"type:text;serializer:json"`
	Tags           []string         `json:"tags" gorm:"type:text;serializer:json"`
	DeliveryType   DeliveryType     `json:"delivery_type" gorm:"type:varchar(20);not null;default:'manual'"`
	Active         bool             `json:"active" gorm:"not null;index"`
	Featured       bool             `json:"featured" gorm:"default:false;index"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `json:"-" gorm:"index"`

	// Relations
	Category *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Options  []ProductOption `json:"options,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// OptionType is the input control an option is rendered with.
type OptionType string

const (
	OptionSelect   OptionType = "select"
	OptionInput    OptionType = "input"
	OptionCheckbox OptionType = "checkbox"
)

// OptionChoice is one selectable value of a product option.
type OptionChoice struct {
	Label         string          `json:"label"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// ProductOption is an admin-defined field a customer fills in when buying a product.
type ProductOption struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProductID uint           `json:"product_id" gorm:"not null;uniqueIndex:idx_product_option_key"`
	Key       string         `json:"key" gorm:"size:100;not null;uniqueIndex:idx_product_option_key"`
	Label     string         `json:"label" gorm:"size:255;not null"`
	Type      OptionType     `json:"type" gorm:"type:varchar(20);not null"`
	Required  bool           `json:"required" gorm:"default:false"`
	SortOrder int            `json:"sort_order" gorm:"default:0"`
	Choices   []OptionChoice `json:"choices" gorm:"type:text;serializer:json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SelectedOptions maps option keys to the value the customer picked or typed.
type SelectedOptions map[string]string
