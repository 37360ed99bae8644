// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order is immutable after creation except for DeliveryStatus, which the
// order engine and delivery service move through the status machine.
type Order struct {
	BaseModel
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	TotalCost      float64        `json:"total_cost" gorm:"type:decimal(10,2);not null"`
	Address        string         `json:"address" gorm:"type:text;not null"`
	DeliveryStatus DeliveryStatus `json:"delivery_status" gorm:"type:varchar(20);default:'not assigned';index"`

	// Relationships
	User  User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

// ShortID is the order-number prefix users see in notifications.
func (o *Order) ShortID() string {
	id := o.ID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// OrderLine freezes one cart line at purchase time. ProductName and
// UnitPrice are snapshots so history survives catalog edits and
// product deletion.
type OrderLine struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   string    `json:"product_id" gorm:"size:255;not null;index"`
	ProductName string    `json:"product_name" gorm:"size:255;not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
}
