package services

import "foodhub/internal/models"

// Single authoritative order state machine. Both the provider transition
// operation and customer cancellation consult this table; neither keeps its
// own partial copy.
var orderTransitions = map[string][]string{
	models.OrderStatusPlaced:    {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// Targets a provider may request. Cancellation is excluded: providers never
// set cancelled directly.
var providerTargets = map[string]bool{
	models.OrderStatusPreparing: true,
	models.OrderStatusReady:     true,
	models.OrderStatusDelivered: true,
}

// CanTransition reports whether the transition table allows current -> target.
func CanTransition(current, target string) bool {
	for _, allowed := range orderTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status has no outgoing transitions.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// IsProviderTarget reports whether a provider may request the target status.
func IsProviderTarget(status string) bool {
	return providerTargets[status]
}
