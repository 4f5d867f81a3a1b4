package pilots

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// RegisterInput captures a new pilot application.
type RegisterInput struct {
	Name                string
	Phone               string
	Email               *string
	VehicleRegistration string
	VehicleType         enums.VehicleType
	VehicleCapacityKg   int
	InsuranceValid      bool
	RCValid             bool
	LicenseNumber       string
	LicenseValidTill    time.Time
}

// UpdateLocationInput carries a location ping from the pilot app.
type UpdateLocationInput struct {
	PilotID uuid.UUID
	Lat     float64
	Lng     float64
}

// ListFilters describe the inputs supported by the admin pilot list.
type ListFilters struct {
	Status      *enums.PilotStatus
	VehicleType *enums.VehicleType
	Available   *bool
	Query       string
}

// Profile is the pilot representation returned to clients. PilotID is the
// human-facing registry number, not the database key.
type Profile struct {
	ID                  uuid.UUID         `json:"id"`
	PilotID             string            `json:"pilotId"`
	Name                string            `json:"name"`
	Phone               string            `json:"phone"`
	Email               *string           `json:"email,omitempty"`
	VehicleRegistration string            `json:"vehicleRegistration"`
	VehicleType         enums.VehicleType `json:"vehicleType"`
	VehicleCapacityKg   int               `json:"vehicleCapacityKg"`
	InsuranceValid      bool              `json:"insuranceValid"`
	RCValid             bool              `json:"rcValid"`
	LicenseNumber       string            `json:"licenseNumber"`
	LicenseValidTill    time.Time         `json:"licenseValidTill"`
	Status              enums.PilotStatus `json:"status"`
	RejectionReason     *string           `json:"rejectionReason,omitempty"`
	IsActive            bool              `json:"isActive"`
	IsAvailable         bool              `json:"isAvailable"`
	CurrentOrderID      *uuid.UUID        `json:"currentOrderId,omitempty"`
	CurrentLat          *float64          `json:"currentLat,omitempty"`
	CurrentLng          *float64          `json:"currentLng,omitempty"`
	LocationUpdatedAt   *time.Time        `json:"locationUpdatedAt,omitempty"`
	TotalDeliveries     int               `json:"totalDeliveries"`
	RatingAvg           float64           `json:"ratingAvg"`
	RatingCount         int               `json:"ratingCount"`
	CreatedAt           time.Time         `json:"createdAt"`
}

// PilotList wraps the paginated directory rows plus page metadata.
type PilotList struct {
	Pilots []Profile       `json:"pilots"`
	Meta   pagination.Meta `json:"meta"`
}

// Stats summarizes the directory for the admin dashboard.
type Stats struct {
	PendingApproval int64 `json:"pendingApproval"`
	Approved        int64 `json:"approved"`
	Rejected        int64 `json:"rejected"`
	Deactivated     int64 `json:"deactivated"`
	AvailableNow    int64 `json:"availableNow"`
}

// ProfileFromModel maps the persistence row to the client shape.
func ProfileFromModel(p *models.Pilot) Profile {
	return Profile{
		ID:                  p.ID,
		PilotID:             p.PilotID(),
		Name:                p.Name,
		Phone:               p.Phone,
		Email:               p.Email,
		VehicleRegistration: p.VehicleRegistration,
		VehicleType:         p.VehicleType,
		VehicleCapacityKg:   p.VehicleCapacityKg,
		InsuranceValid:      p.InsuranceValid,
		RCValid:             p.RCValid,
		LicenseNumber:       p.LicenseNumber,
		LicenseValidTill:    p.LicenseValidTill,
		Status:              p.Status,
		RejectionReason:     p.RejectionReason,
		IsActive:            p.IsActive,
		IsAvailable:         p.IsAvailable,
		CurrentOrderID:      p.CurrentOrderID,
		CurrentLat:          p.CurrentLat,
		CurrentLng:          p.CurrentLng,
		LocationUpdatedAt:   p.LocationUpdatedAt,
		TotalDeliveries:     p.TotalDeliveries,
		RatingAvg:           p.RatingAvg,
		RatingCount:         p.RatingCount,
		CreatedAt:           p.CreatedAt,
	}
}

// RegisteredEvent is emitted when a new application lands.
type RegisteredEvent struct {
	PilotID     uuid.UUID         `json:"pilot_id"`
	PilotNumber string            `json:"pilot_number"`
	Phone       string            `json:"phone"`
	VehicleType enums.VehicleType `json:"vehicle_type"`
}

// StatusChangedEvent is emitted on approval, rejection and deactivation.
type StatusChangedEvent struct {
	PilotID     uuid.UUID         `json:"pilot_id"`
	PilotNumber string            `json:"pilot_number"`
	Phone       string            `json:"phone"`
	OldStatus   enums.PilotStatus `json:"old_status"`
	NewStatus   enums.PilotStatus `json:"new_status"`
	Reason      *string           `json:"reason,omitempty"`
}
