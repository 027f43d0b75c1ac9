package enums

import "fmt"

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusPicking     OrderStatus = "picking"
	OrderStatusReadyToPack OrderStatus = "ready_to_pack"
	OrderStatusPacked      OrderStatus = "packed"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPicking,
	OrderStatusReadyToPack,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusCancelled,
}

// orderStatusTransitions is the forward-only transition graph. Cancel is
// reachable from every non-terminal state; shipped and cancelled are terminal.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:     {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:     {OrderStatusReadyToPack, OrderStatusCancelled},
	OrderStatusReadyToPack: {OrderStatusPacked, OrderStatusCancelled},
	OrderStatusPacked:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:     {},
	OrderStatusCancelled:   {},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusShipped || o == OrderStatusCancelled
}

// CanTransitionTo reports whether the graph allows moving to target.
func (o OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
