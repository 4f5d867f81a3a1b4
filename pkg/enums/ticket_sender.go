package enums

import "fmt"

// TicketSenderType identifies who authored a ticket message.
type TicketSenderType string

const (
	TicketSenderCustomer TicketSenderType = "customer"
	TicketSenderPilot    TicketSenderType = "pilot"
	TicketSenderAdmin    TicketSenderType = "admin"
	TicketSenderSystem   TicketSenderType = "system"
)

// String implements fmt.Stringer.
func (t TicketSenderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketSenderType.
func (t TicketSenderType) IsValid() bool {
	return t == TicketSenderCustomer || t == TicketSenderPilot || t == TicketSenderAdmin || t == TicketSenderSystem
}

// ParseTicketSenderType converts raw input into a TicketSenderType.
func ParseTicketSenderType(value string) (TicketSenderType, error) {
	switch TicketSenderType(value) {
	case TicketSenderCustomer, TicketSenderPilot, TicketSenderAdmin, TicketSenderSystem:
		return TicketSenderType(value), nil
	}
	return "", fmt.Errorf("invalid ticket sender type %q", value)
}
