package enums

import "fmt"

// PilotStatus tracks the admin-gated lifecycle of a pilot account.
type PilotStatus string

const (
	PilotStatusPendingApproval PilotStatus = "pending_approval"
	PilotStatusApproved        PilotStatus = "approved"
	PilotStatusRejected        PilotStatus = "rejected"
	PilotStatusDeactivated     PilotStatus = "deactivated"
)

var validPilotStatuses = []PilotStatus{
	PilotStatusPendingApproval,
	PilotStatusApproved,
	PilotStatusRejected,
	PilotStatusDeactivated,
}

// String implements fmt.Stringer.
func (p PilotStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PilotStatus.
func (p PilotStatus) IsValid() bool {
	for _, candidate := range validPilotStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePilotStatus converts raw input into a PilotStatus.
func ParsePilotStatus(value string) (PilotStatus, error) {
	for _, candidate := range validPilotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pilot status %q", value)
}
