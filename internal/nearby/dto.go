package nearby

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// SearchInput are the knobs a pilot can turn on the nearby feed. Zero values
// fall back to configured defaults.
type SearchInput struct {
	PilotID   uuid.UUID
	RadiusKm  float64
	OrderType *enums.OrderPriority
	Page      int
	Limit     int
}

// Order is one deliverable order in the feed, annotated with the computed
// great-circle distance and its effective priority.
type Order struct {
	ID              uuid.UUID           `json:"id"`
	OrderCode       string              `json:"orderCode"`
	Priority        enums.OrderPriority `json:"priority"`
	DeliveryAddress string              `json:"deliveryAddress"`
	DeliveryLat     float64             `json:"deliveryLat"`
	DeliveryLng     float64             `json:"deliveryLng"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	DistanceKm      float64             `json:"distanceKm"`
	ConfirmedAt     time.Time           `json:"confirmedAt"`
	AgeMinutes      int                 `json:"ageMinutes"`
}

// Summary partitions the radius hits by effective priority.
type Summary struct {
	Urgent int `json:"urgent"`
	Normal int `json:"normal"`
	Total  int `json:"total"`
}

// Filters echoes what the search actually ran with, after defaulting and
// clamping.
type Filters struct {
	RadiusKm  float64 `json:"radiusKm"`
	OrderType string  `json:"orderType"`
}

// SearchResult is the full nearby feed payload.
type SearchResult struct {
	Orders  []Order         `json:"orders"`
	Summary Summary         `json:"summary"`
	Filters Filters         `json:"filters"`
	Meta    pagination.Meta `json:"meta"`
}
