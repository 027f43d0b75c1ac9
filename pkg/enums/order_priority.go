package enums

import "fmt"

// OrderPriority ranks how urgently an order must leave the warehouse.
type OrderPriority string

const (
	OrderPriorityLow       OrderPriority = "low"
	OrderPriorityNormal    OrderPriority = "normal"
	OrderPriorityUrgent    OrderPriority = "urgent"
	OrderPriorityOvernight OrderPriority = "overnight"
)

var validOrderPriorities = []OrderPriority{
	OrderPriorityLow,
	OrderPriorityNormal,
	OrderPriorityUrgent,
	OrderPriorityOvernight,
}

// String implements fmt.Stringer.
func (o OrderPriority) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPriority.
func (o OrderPriority) IsValid() bool {
	for _, candidate := range validOrderPriorities {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPriority converts raw input into an OrderPriority.
func ParseOrderPriority(value string) (OrderPriority, error) {
	for _, candidate := range validOrderPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order priority %q", value)
}
