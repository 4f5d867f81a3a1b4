package enums

import "fmt"

// OrderPriority partitions deliverable orders for the nearby feed. Orders can
// be flagged urgent explicitly; older dispatched orders are promoted by policy.
type OrderPriority string

const (
	OrderPriorityNormal OrderPriority = "normal"
	OrderPriorityUrgent OrderPriority = "urgent"
)

// String implements fmt.Stringer.
func (o OrderPriority) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPriority.
func (o OrderPriority) IsValid() bool {
	return o == OrderPriorityNormal || o == OrderPriorityUrgent
}

// ParseOrderPriority converts raw input into an OrderPriority.
func ParseOrderPriority(value string) (OrderPriority, error) {
	switch OrderPriority(value) {
	case OrderPriorityNormal:
		return OrderPriorityNormal, nil
	case OrderPriorityUrgent:
		return OrderPriorityUrgent, nil
	}
	return "", fmt.Errorf("invalid order priority %q", value)
}
