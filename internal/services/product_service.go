// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type ProductRequest struct {
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_des"`
	LongDescription  string   `json:"des"`
	Images           []string `json:"images"`
	ActualPrice      float64  `json:"actual_price"`
	Discount         float64  `json:"discount"`
	SellingPrice     float64  `json:"sell_price"`
	Stock            int      `json:"stock"`
	Tags             string   `json:"tags"`
	TermsAccepted    bool     `json:"tac"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func validateProductRequest(req *ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return apperrors.Validationf("enter product name")
	case len(req.ShortDescription) < 10 || len(req.ShortDescription) > 100:
		return apperrors.Validationf("short description must be between 10 to 100 characters")
	case strings.TrimSpace(req.LongDescription) == "":
		return apperrors.Validationf("enter detail description about the product")
	case len(req.Images) == 0:
		return apperrors.Validationf("upload at least one product image")
	case req.ActualPrice <= 0 || req.SellingPrice <= 0:
		return apperrors.Validationf("you have to add the price")
	case req.SellingPrice > req.ActualPrice:
		return apperrors.Validationf("selling price cannot exceed the actual price")
	case req.Stock < 20:
		return apperrors.Validationf("you should have at least 20 items in stock")
	case strings.TrimSpace(req.Tags) == "":
		return apperrors.Validationf("enter a few tags to help ranking your product in search")
	case !req.TermsAccepted:
		return apperrors.Validationf("you must agree to the terms and conditions")
	}
	return nil
}

// CreateProduct validates the form and persists the product with its
// image rows. The id is the lowercased hyphenated name plus a random
// numeric suffix, retried on the unlikely collision.
func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *ProductRequest) (*models.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	id, err := s.generateProductID(req.Name)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:               id,
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		ActualPrice:      req.ActualPrice,
		Discount:         req.Discount,
		SellingPrice:     req.SellingPrice,
		Stock:            req.Stock,
		Tags:             strings.ToLower(req.Tags),
		SellerID:         sellerID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return createImageRows(tx, product.ID, req.Images)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

func (s *ProductService) generateProductID(name string) (string, error) {
	slug := slugify(name)
	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := utils.RandomSuffix(5000)
		if err != nil {
			return "", fmt.Errorf("failed to generate product id: %w", err)
		}
		id := slug + "-" + suffix

		var count int64
		if err := s.db.Unscoped().Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique product id for %q", name)
}

func createImageRows(tx *gorm.DB, productID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.ProductImage{
			ProductID: productID,
			URL:       url,
			Position:  i,
		})
	}
	if err := tx.Create(&images).Error; err != nil {
		return fmt.Errorf("failed to save product images: %w", err)
	}
	return nil
}

// UpdateProduct is owner-only and replaces the image set wholesale.
// The product id is stable across updates.
func (s *ProductService) UpdateProduct(sellerID uuid.UUID, productID string, req *ProductRequest) (*models.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("product %s not found", productID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, fmt.Errorf("%w: you can only edit your own products", apperrors.ErrForbidden)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":              req.Name,
			"short_description": req.ShortDescription,
			"long_description":  req.LongDescription,
			"actual_price":      req.ActualPrice,
			"discount":          req.Discount,
			"selling_price":     req.SellingPrice,
			"stock":             req.Stock,
			"tags":              strings.ToLower(req.Tags),
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to replace product images: %w", err)
		}
		return createImageRows(tx, product.ID, req.Images)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

// DeleteProduct removes the product together with its images, cart
// lines, and reviews. Order lines stay: they are snapshots and order
// history must survive the catalog. Deleting an absent product is a
// no-op.
func (s *ProductService) DeleteProduct(sellerID uuid.UUID, productID string, isAdmin bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !isAdmin && product.SellerID != sellerID {
			return fmt.Errorf("%w: you can only delete your own products", apperrors.ErrForbidden)
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart lines: %w", err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func (s *ProductService) GetProduct(productID string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("product %s not found", productID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetSellerProducts(sellerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Images").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return products, nil
}

// SearchByTags matches products whose tag string contains any of the
// requested tags, case-insensitively.
func (s *ProductService) SearchByTags(tags string) ([]models.Product, error) {
	query := s.db.Preload("Images")

	var conditions *gorm.DB
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if conditions == nil {
			conditions = s.db.Where("tags LIKE ?", "%"+tag+"%")
		} else {
			conditions = conditions.Or("tags LIKE ?", "%"+tag+"%")
		}
	}
	if conditions != nil {
		query = query.Where(conditions)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return products, nil
}

func (s *ProductService) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Images").
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return products, nil
}

// AddReview accepts a review only from a user with a delivered order
// containing the product.
func (s *ProductService) AddReview(userID uuid.UUID, productID string, req *ReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("rating must be between 1 and 5")
	}

	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	var delivered int64
	err := s.db.Model(&models.OrderLine{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.product_id = ? AND orders.user_id = ? AND orders.delivery_status = ? AND orders.deleted_at IS NULL",
			productID, userID, models.DeliveryStatusDelivered).
		Count(&delivered).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if delivered == 0 {
		return nil, fmt.Errorf("%w: you can only review products you have received", apperrors.ErrForbidden)
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    req.Rating,
		Text:      req.Text,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	return review, nil
}

func (s *ProductService) GetReviews(productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return reviews, nil
}
