package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// Pilot is a delivery driver account. Pilots are never hard-deleted; a
// deactivated pilot keeps its row and counters.
type Pilot struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PilotNumber int64     `gorm:"column:pilot_number;autoIncrement;uniqueIndex"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Phone       string    `gorm:"column:phone;type:text;not null;uniqueIndex"`
	Email       *string   `gorm:"column:email;type:text"`

	VehicleRegistration string            `gorm:"column:vehicle_registration;type:text;not null"`
	VehicleType         enums.VehicleType `gorm:"column:vehicle_type;type:text;not null"`
	VehicleCapacityKg   int               `gorm:"column:vehicle_capacity_kg;not null;default:0"`
	InsuranceValid      bool              `gorm:"column:insurance_valid;not null;default:false"`
	RCValid             bool              `gorm:"column:rc_valid;not null;default:false"`

	LicenseNumber    string    `gorm:"column:license_number;type:text;not null"`
	LicenseValidTill time.Time `gorm:"column:license_valid_till;not null"`

	Status          enums.PilotStatus `gorm:"column:status;type:text;not null;default:'pending_approval'"`
	RejectionReason *string           `gorm:"column:rejection_reason;type:text"`
	IsActive        bool              `gorm:"column:is_active;not null;default:false"`
	IsAvailable     bool              `gorm:"column:is_available;not null;default:false"`

	CurrentOrderID    *uuid.UUID `gorm:"column:current_order_id;type:uuid"`
	CurrentLat        *float64   `gorm:"column:current_lat"`
	CurrentLng        *float64   `gorm:"column:current_lng"`
	LocationUpdatedAt *time.Time `gorm:"column:location_updated_at"`

	TotalDeliveries int     `gorm:"column:total_deliveries;not null;default:0"`
	RatingAvg       float64 `gorm:"column:rating_avg;not null;default:0"`
	RatingCount     int     `gorm:"column:rating_count;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PilotID renders the human-readable identifier shown to pilots and staff.
func (p Pilot) PilotID() string {
	return fmt.Sprintf("PIL%06d", p.PilotNumber)
}

// LicenseIsValid reports whether the license is still in date.
func (p Pilot) LicenseIsValid(now time.Time) bool {
	return p.LicenseValidTill.After(now)
}

// HasLocation reports whether the pilot has ever pushed a location fix.
func (p Pilot) HasLocation() bool {
	return p.CurrentLat != nil && p.CurrentLng != nil
}
