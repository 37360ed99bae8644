// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusIsValid(t *testing.T) {
	valid := []DeliveryStatus{
		DeliveryStatusAssigned,
		DeliveryStatusOutForDelivery,
		DeliveryStatusDelivered,
		DeliveryStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), string(s))
	}

	// "not assigned" is the initial state, never a requested one.
	assert.False(t, DeliveryStatusNotAssigned.IsValid())
	assert.False(t, DeliveryStatus("lost").IsValid())
	assert.False(t, DeliveryStatus("").IsValid())
}

func TestDeliveryStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to DeliveryStatus
	}{
		{DeliveryStatusNotAssigned, DeliveryStatusAssigned},
		{DeliveryStatusNotAssigned, DeliveryStatusCancelled},
		{DeliveryStatusAssigned, DeliveryStatusOutForDelivery},
		{DeliveryStatusAssigned, DeliveryStatusCancelled},
		{DeliveryStatusOutForDelivery, DeliveryStatusDelivered},
		{DeliveryStatusOutForDelivery, DeliveryStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to DeliveryStatus
	}{
		{DeliveryStatusNotAssigned, DeliveryStatusDelivered},
		{DeliveryStatusNotAssigned, DeliveryStatusOutForDelivery},
		{DeliveryStatusAssigned, DeliveryStatusDelivered},
		{DeliveryStatusOutForDelivery, DeliveryStatusAssigned},
		{DeliveryStatusDelivered, DeliveryStatusCancelled},
		{DeliveryStatusDelivered, DeliveryStatusAssigned},
		{DeliveryStatusCancelled, DeliveryStatusAssigned},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
