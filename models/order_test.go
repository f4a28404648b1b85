package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDeliveryStatus(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusReturned, StatusFailedDelivery,
	} {
		assert.True(t, IsValidDeliveryStatus(s), s)
	}
	assert.False(t, IsValidDeliveryStatus("In Transit"))
	assert.False(t, IsValidDeliveryStatus("delivered"))
	assert.False(t, IsValidDeliveryStatus(""))
}

func TestCanReturn_NotDelivered(t *testing.T) {
	o := &Order{}
	assert.False(t, o.CanReturn(time.Now()))
}

func TestCanReturn_WindowBoundary(t *testing.T) {
	delivered := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &Order{DeliveredAt: &delivered}

	// Same day and within the window.
	assert.True(t, o.CanReturn(delivered))
	assert.True(t, o.CanReturn(delivered.AddDate(0, 0, 3)))

	// Exactly 7 days after delivery is still accepted.
	assert.True(t, o.CanReturn(delivered.AddDate(0, 0, 7)))

	// Day 8 is past the window.
	assert.False(t, o.CanReturn(delivered.AddDate(0, 0, 8)))
}
