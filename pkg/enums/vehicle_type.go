package enums

import "fmt"

// VehicleType classifies the vehicle a pilot registers with.
type VehicleType string

const (
	VehicleTypeTruck      VehicleType = "truck"
	VehicleTypeMiniTruck  VehicleType = "mini_truck"
	VehicleTypePickup     VehicleType = "pickup"
	VehicleTypeTractor    VehicleType = "tractor"
	VehicleTypeTrailer    VehicleType = "trailer"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
)

var validVehicleTypes = []VehicleType{
	VehicleTypeTruck,
	VehicleTypeMiniTruck,
	VehicleTypePickup,
	VehicleTypeTractor,
	VehicleTypeTrailer,
	VehicleTypeMotorcycle,
}

// String implements fmt.Stringer.
func (v VehicleType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleType.
func (v VehicleType) IsValid() bool {
	for _, candidate := range validVehicleTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleType converts raw input into a VehicleType.
func ParseVehicleType(value string) (VehicleType, error) {
	for _, candidate := range validVehicleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle type %q", value)
}
