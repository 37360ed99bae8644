// internal/models/delivery.go
package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type DeliveryAgent struct {
	BaseModel
	Name         string `json:"name" gorm:"size:100;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	Phone        string `json:"phone" gorm:"size:20"`
	Area         string `json:"area" gorm:"size:100"`
}

func (a *DeliveryAgent) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *DeliveryAgent) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}

// DeliveryAssignment links an agent to an order. The unique index on
// OrderID is what makes double assignment impossible.
type DeliveryAssignment struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	AgentID uuid.UUID `json:"agent_id" gorm:"type:uuid;not null;index"`
	OrderID uuid.UUID `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`

	Agent DeliveryAgent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Order Order         `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
