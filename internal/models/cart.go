// internal/models/cart.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product) pair. Repeat adds are additive; the
// unique index backs the atomic upsert in the cart service.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"size:255;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
