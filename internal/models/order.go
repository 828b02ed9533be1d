// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusInProcess OrderStatus = "IN_PROCESS"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProcess, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusInProcess, OrderStatusCancelled},
	OrderStatusInProcess: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted},
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	BaseModel
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	TotalAmount float64        `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status      OrderStatus    `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	ProductIDs  pq.StringArray `json:"product_ids" gorm:"type:text[]"`
	PaymentRef  string         `json:"payment_ref,omitempty" gorm:"size:255"`

	// Relationships
	User   User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Seller User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
