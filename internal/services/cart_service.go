// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
)

type CartService struct {
	db *gorm.DB
}

// CartLine is a cart item joined with the live product. Prices here
// track the catalog; the order engine snapshots its own.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	ImageURL  string  `json:"image_url"`
}

type CartContents struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddToCart adds qty of a product, accumulating onto any existing line.
// The upsert is a single statement so concurrent adds never lose an
// increment.
func (s *CartService) AddToCart(userID uuid.UUID, productID string, qty int) error {
	if qty <= 0 {
		return apperrors.Validationf("quantity must be positive")
	}

	var product models.Product
	if err := s.db.Select("id").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("product %s not found", productID)
		}
		return fmt.Errorf("database error: %w", err)
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	return nil
}

// RemoveFromCart drops the line for the product. Removing something
// that is not in the cart is not an error.
func (s *CartService) RemoveFromCart(userID uuid.UUID, productID string) error {
	if err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

func (s *CartService) GetCart(userID uuid.UUID) (*CartContents, error) {
	var items []models.CartItem
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	contents := &CartContents{Items: []CartLine{}}
	if len(items) == 0 {
		return contents, nil
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var products []models.Product
	if err := s.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product vanished since it was added; skip the line.
			continue
		}
		contents.Items = append(contents.Items, CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.SellingPrice,
			Quantity:  item.Quantity,
			Stock:     product.Stock,
			ImageURL:  product.FirstImageURL(),
		})
		contents.Total += product.SellingPrice * float64(item.Quantity)
	}

	return contents, nil
}
