package enums

import "fmt"

// ActorRole is the role claim carried in session tokens.
type ActorRole string

const (
	ActorRolePilot    ActorRole = "pilot"
	ActorRoleAdmin    ActorRole = "admin"
	ActorRoleCustomer ActorRole = "customer"
)

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	return a == ActorRolePilot || a == ActorRoleAdmin || a == ActorRoleCustomer
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	switch ActorRole(value) {
	case ActorRolePilot, ActorRoleAdmin, ActorRoleCustomer:
		return ActorRole(value), nil
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
