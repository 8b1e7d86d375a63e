package model

import "time"

// OrderStatusLog records a status change of an order.
// Every transition is logged, including the initial placement.
type OrderStatusLog struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status,omitempty" gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `json:"to_status" gorm:"type:varchar(20);not null;index"`
	ActorID    *uint       `json:"actor_id,omitempty"`
	Note       string      `json:"note,omitempty" gorm:"type:text"`
	CreatedAt  time.Time   `json:"created_at"`
}
