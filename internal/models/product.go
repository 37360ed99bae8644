// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product uses a human-readable string id derived from its name plus a
// random numeric suffix, e.g. "wireless-mouse-3817". Stock never goes
// negative: the order engine decrements it with a conditional update.
type Product struct {
	ID               string         `json:"product_id" gorm:"primaryKey;size:255"`
	Name             string         `json:"name" gorm:"size:255;not null"`
	ShortDescription string         `json:"short_des" gorm:"size:100;not null"`
	LongDescription  string         `json:"des" gorm:"type:text;not null"`
	ActualPrice      float64        `json:"actual_price" gorm:"type:decimal(10,2);not null"`
	Discount         float64        `json:"discount" gorm:"type:decimal(5,2);not null"`
	SellingPrice     float64        `json:"sell_price" gorm:"type:decimal(10,2);not null"`
	Stock            int            `json:"stock" gorm:"not null;default:0"`
	Tags             string         `json:"tags" gorm:"type:text;not null"`
	SellerID         uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Seller User           `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID string `json:"product_id" gorm:"size:255;not null;index"`
	URL       string `json:"url" gorm:"size:500;not null"`
	Position  int    `json:"position" gorm:"not null;default:0"`
}

// FirstImageURL returns the cover image, or "" when none is loaded.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
