package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder  OutboxAggregateType = "order"
	AggregatePilot  OutboxAggregateType = "pilot"
	AggregateTicket OutboxAggregateType = "support_ticket"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregatePilot,
	AggregateTicket,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventPilotRegistered     OutboxEventType = "pilot_registered"
	EventPilotApproved       OutboxEventType = "pilot_approved"
	EventPilotRejected       OutboxEventType = "pilot_rejected"
	EventPilotDeactivated    OutboxEventType = "pilot_deactivated"
	EventOTPRequested        OutboxEventType = "otp_requested"
	EventOrderAccepted       OutboxEventType = "order_accepted"
	EventJourneyStarted      OutboxEventType = "journey_started"
	EventOrderDelivered      OutboxEventType = "order_delivered"
	EventOrderCancelled      OutboxEventType = "order_cancelled"
	EventTicketCreated       OutboxEventType = "ticket_created"
	EventTicketStatusChanged OutboxEventType = "ticket_status_changed"
	EventTicketAssigned      OutboxEventType = "ticket_assigned"
)

var validOutboxEventTypes = []OutboxEventType{
	EventPilotRegistered,
	EventPilotApproved,
	EventPilotRejected,
	EventPilotDeactivated,
	EventOTPRequested,
	EventOrderAccepted,
	EventJourneyStarted,
	EventOrderDelivered,
	EventOrderCancelled,
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigned,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
