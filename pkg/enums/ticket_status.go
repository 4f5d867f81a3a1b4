package enums

import "fmt"

// TicketStatus tracks the support ticket lifecycle.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// ticketStatusEdges is the explicit allowed-transition table. Backward moves
// (resolved -> open and the like) are rejected; closed is terminal apart from
// post-closure rating which is not a status change.
var ticketStatusEdges = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from t to next is an allowed edge.
func (t TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range ticketStatusEdges[t] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminalOrResolved reports whether the ticket may accept a rating.
func (t TicketStatus) IsTerminalOrResolved() bool {
	return t == TicketStatusResolved || t == TicketStatusClosed
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
