// internal/services/delivery_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type DeliveryService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type CreateAgentRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,phone"`
	Area     string `json:"area" validate:"required"`
}

func NewDeliveryService(db *gorm.DB, notifications *NotificationService) *DeliveryService {
	return &DeliveryService{
		db:            db,
		notifications: notifications,
	}
}

func (s *DeliveryService) CreateAgent(req *CreateAgentRequest) (*models.DeliveryAgent, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var existing models.DeliveryAgent
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperrors.Validationf("delivery agent with this email already exists")
	}

	agent := &models.DeliveryAgent{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Area:  req.Area,
	}
	if err := agent.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(agent).Error; err != nil {
		return nil, fmt.Errorf("failed to create delivery agent: %w", err)
	}

	return agent, nil
}

func (s *DeliveryService) ListAgents() ([]models.DeliveryAgent, error) {
	var agents []models.DeliveryAgent
	if err := s.db.Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return agents, nil
}

func (s *DeliveryService) GetAgentByEmail(email string) (*models.DeliveryAgent, error) {
	var agent models.DeliveryAgent
	if err := s.db.Where("email = ?", email).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("delivery agent %s not found", email)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &agent, nil
}

// AssignOrder links an order to an agent and moves it to "assigned" in
// one transaction. The unique index on delivery_assignments.order_id is
// the backstop against racing assignments.
func (s *DeliveryService) AssignOrder(orderID uuid.UUID, agentEmail string) error {
	var (
		ownerID uuid.UUID
		shortID string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var agent models.DeliveryAgent
		if err := tx.Where("email = ?", agentEmail).First(&agent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("delivery agent %s not found", agentEmail)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("order %s not found", orderID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var existing models.DeliveryAssignment
		if err := tx.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
			return fmt.Errorf("%w: order #%s", apperrors.ErrAlreadyAssigned, order.ShortID())
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if !order.DeliveryStatus.CanTransitionTo(models.DeliveryStatusAssigned) {
			return apperrors.Validationf("order #%s cannot be assigned from status %q", order.ShortID(), order.DeliveryStatus)
		}

		assignment := &models.DeliveryAssignment{
			AgentID: agent.ID,
			OrderID: order.ID,
		}
		if err := tx.Create(assignment).Error; err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		if err := tx.Model(&order).Update("delivery_status", models.DeliveryStatusAssigned).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		ownerID = order.UserID
		shortID = order.ShortID()
		return nil
	})
	if err != nil {
		return err
	}

	s.notifications.Notify(ownerID, fmt.Sprintf("The status of your order #%s has been updated to '%s'.", shortID, models.DeliveryStatusAssigned))

	return nil
}

// UpdateStatus moves an order along the delivery state machine and
// notifies the owner. Illegal statuses and illegal transitions are
// rejected.
func (s *DeliveryService) UpdateStatus(orderID uuid.UUID, status string) error {
	next := models.DeliveryStatus(status)
	if !next.IsValid() {
		return apperrors.Validationf("invalid delivery status %q", status)
	}

	var (
		ownerID uuid.UUID
		shortID string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("order %s not found", orderID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.DeliveryStatus.CanTransitionTo(next) {
			return apperrors.Validationf("order #%s cannot move from %q to %q", order.ShortID(), order.DeliveryStatus, next)
		}

		if err := tx.Model(&order).Update("delivery_status", next).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		ownerID = order.UserID
		shortID = order.ShortID()
		return nil
	})
	if err != nil {
		return err
	}

	s.notifications.Notify(ownerID, fmt.Sprintf("The status of your order #%s has been updated to '%s'.", shortID, next))

	return nil
}

// GetAssignedOrders returns the agent's orders with the customer loaded
// for the delivery sheet, newest first.
func (s *DeliveryService) GetAssignedOrders(agentEmail string) ([]models.Order, error) {
	agent, err := s.GetAgentByEmail(agentEmail)
	if err != nil {
		return nil, err
	}
	return s.GetAssignedOrdersByAgentID(agent.ID)
}

func (s *DeliveryService) GetAssignedOrdersByAgentID(agentID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Lines").Preload("User").
		Where("id IN (?)", s.db.Model(&models.DeliveryAssignment{}).
			Select("order_id").
			Where("agent_id = ?", agentID)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return orders, nil
}

// DeleteAgent removes an agent after putting their undelivered orders
// back into the unassigned pool. The order reset has to happen while
// the assignment links still exist. Deleting an unknown agent is a
// no-op.
func (s *DeliveryService) DeleteAgent(agentEmail string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var agent models.DeliveryAgent
		if err := tx.Where("email = ?", agentEmail).First(&agent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&models.Order{}).
			Where("delivery_status = ? AND id IN (?)", models.DeliveryStatusAssigned,
				tx.Model(&models.DeliveryAssignment{}).
					Select("order_id").
					Where("agent_id = ?", agent.ID)).
			Update("delivery_status", models.DeliveryStatusNotAssigned).Error; err != nil {
			return fmt.Errorf("failed to reset orders: %w", err)
		}

		if err := tx.Where("agent_id = ?", agent.ID).Delete(&models.DeliveryAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to remove assignments: %w", err)
		}

		if err := tx.Unscoped().Delete(&agent).Error; err != nil {
			return fmt.Errorf("failed to delete agent: %w", err)
		}

		return nil
	})
}
