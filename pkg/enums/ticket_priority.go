package enums

import "fmt"

// TicketPriority orders the support queue.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

var validTicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// String implements fmt.Stringer.
func (t TicketPriority) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketPriority.
func (t TicketPriority) IsValid() bool {
	for _, candidate := range validTicketPriorities {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketPriority converts raw input into a TicketPriority.
func ParseTicketPriority(value string) (TicketPriority, error) {
	for _, candidate := range validTicketPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket priority %q", value)
}
