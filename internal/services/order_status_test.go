package services

import (
	"testing"

	"foodhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []string{
		models.OrderStatusPlaced,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}

	allowed := map[[2]string]bool{
		{models.OrderStatusPlaced, models.OrderStatusPreparing}: true,
		{models.OrderStatusPlaced, models.OrderStatusCancelled}: true,
		{models.OrderStatusPreparing, models.OrderStatusReady}:  true,
		{models.OrderStatusReady, models.OrderStatusDelivered}:  true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]string{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("unknown", models.OrderStatusPreparing))
	assert.False(t, CanTransition(models.OrderStatusPlaced, "unknown"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(models.OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(models.OrderStatusCancelled))
	assert.False(t, IsTerminalStatus(models.OrderStatusPlaced))
	assert.False(t, IsTerminalStatus(models.OrderStatusPreparing))
	assert.False(t, IsTerminalStatus(models.OrderStatusReady))
}

func TestIsProviderTarget(t *testing.T) {
	assert.True(t, IsProviderTarget(models.OrderStatusPreparing))
	assert.True(t, IsProviderTarget(models.OrderStatusReady))
	assert.True(t, IsProviderTarget(models.OrderStatusDelivered))

	// Cancellation is customer-only, and placed is never a target
	assert.False(t, IsProviderTarget(models.OrderStatusCancelled))
	assert.False(t, IsProviderTarget(models.OrderStatusPlaced))
}
