// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the id client-side so every backing database
// (postgres in production, sqlite in tests) gets one.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeSeller   UserType = "seller"
	UserTypeAdmin    UserType = "admin"
	UserTypeDelivery UserType = "delivery"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// DeliveryStatus is the lifecycle tag of an order from creation to
// delivery or cancellation. The string values are part of the API.
type DeliveryStatus string

const (
	DeliveryStatusNotAssigned    DeliveryStatus = "not assigned"
	DeliveryStatusAssigned       DeliveryStatus = "assigned"
	DeliveryStatusOutForDelivery DeliveryStatus = "out for delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
	DeliveryStatusCancelled      DeliveryStatus = "cancelled"
)

// deliveryTransitions is the allowed forward edge set. Delivered and
// cancelled are terminal.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusNotAssigned:    {DeliveryStatusAssigned, DeliveryStatusCancelled},
	DeliveryStatusAssigned:       {DeliveryStatusOutForDelivery, DeliveryStatusCancelled},
	DeliveryStatusOutForDelivery: {DeliveryStatusDelivered, DeliveryStatusCancelled},
	DeliveryStatusDelivered:      {},
	DeliveryStatusCancelled:      {},
}

// IsValid reports whether s is a member of the status set accepted by
// the status-update API.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusAssigned, DeliveryStatusOutForDelivery,
		DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
