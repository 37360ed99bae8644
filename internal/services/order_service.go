// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
)

type OrderService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewOrderService(db *gorm.DB, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		notifications: notifications,
	}
}

// PlaceOrder turns the user's cart into an order in one transaction:
// stock is decremented conditionally (never below zero), order lines
// snapshot the product name and price at purchase time, and the cart
// is drained. A product deleted since it was carted drops its line
// entirely. The purchaser is notified after the transaction commits.
func (s *OrderService) PlaceOrder(userID uuid.UUID, address string) (*models.Order, error) {
	if strings.TrimSpace(address) == "" {
		return nil, apperrors.Validationf("address is required")
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if len(items) == 0 {
			return apperrors.ErrEmptyCart
		}

		var lines []models.OrderLine
		var total float64
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("database error: %w", err)
			}

			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", apperrors.ErrStockExhausted, product.Name)
			}

			lines = append(lines, models.OrderLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.SellingPrice,
				Quantity:    item.Quantity,
			})
			total += product.SellingPrice * float64(item.Quantity)
		}

		if len(lines) == 0 {
			return apperrors.ErrEmptyCart
		}

		order = &models.Order{
			UserID:         userID,
			TotalCost:      total,
			Address:        address,
			DeliveryStatus: models.DeliveryStatusNotAssigned,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}
		order.Lines = lines

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(userID, fmt.Sprintf("Your order #%s has been placed successfully.", order.ShortID()))

	return order, nil
}

// CancelOrder reverses a placed order: stock restored from the line
// snapshots, then assignment, lines, and order removed. Cancelling an
// order that does not exist is a no-op. Delivered orders cannot be
// cancelled.
func (s *OrderService) CancelOrder(orderID uuid.UUID) error {
	var (
		ownerID   uuid.UUID
		shortID   string
		cancelled bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Lines").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.DeliveryStatus.CanTransitionTo(models.DeliveryStatusCancelled) {
			return apperrors.Validationf("order #%s cannot be cancelled from status %q", order.ShortID(), order.DeliveryStatus)
		}

		// Restock before the lines go away. A product deleted since
		// purchase has nothing to restock onto; the update matches no
		// row and that is fine.
		for _, line := range order.Lines {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", line.ProductID).
				Update("stock", gorm.Expr("stock + ?", line.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.DeliveryAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to remove assignment: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to remove order lines: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to remove order: %w", err)
		}

		ownerID = order.UserID
		shortID = order.ShortID()
		cancelled = true
		return nil
	})
	if err != nil {
		return err
	}

	if cancelled {
		s.notifications.Notify(ownerID, fmt.Sprintf("Your order #%s has been cancelled by the admin.", shortID))
	}

	return nil
}

// GetOrderHistory returns the user's orders newest first. Lines are
// self-contained snapshots, so no product join is needed.
func (s *OrderService) GetOrderHistory(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetUnassignedOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Lines").Preload("User").
		Where("delivery_status = ?", models.DeliveryStatusNotAssigned).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrderByID(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Lines").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("order %s not found", orderID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}
