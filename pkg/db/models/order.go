package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a marketplace order as the delivery subsystem sees it. Creation
// and payment live upstream; this core owns the pilot-facing lifecycle.
type Order struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode string    `gorm:"column:order_code;type:text;not null;uniqueIndex"`

	Status   enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'confirmed'"`
	Priority enums.OrderPriority `gorm:"column:priority;type:text;not null;default:'normal'"`

	CustomerName  string `gorm:"column:customer_name;type:text;not null"`
	CustomerPhone string `gorm:"column:customer_phone;type:text;not null"`
	SupplierName  string `gorm:"column:supplier_name;type:text;not null"`
	SupplierPhone string `gorm:"column:supplier_phone;type:text;not null"`

	DeliveryAddress string  `gorm:"column:delivery_address;type:text;not null"`
	DeliveryLat     float64 `gorm:"column:delivery_lat;not null"`
	DeliveryLng     float64 `gorm:"column:delivery_lng;not null"`

	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Items       []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	AssignedPilotID *uuid.UUID `gorm:"column:assigned_pilot_id;type:uuid;index"`

	DeliveryOTP    *string    `gorm:"column:delivery_otp;type:text"`
	OTPGeneratedAt *time.Time `gorm:"column:otp_generated_at"`

	ConfirmedAt      time.Time  `gorm:"column:confirmed_at;not null"`
	DispatchedAt     *time.Time `gorm:"column:dispatched_at"`
	JourneyStartedAt *time.Time `gorm:"column:journey_started_at"`
	JourneyStartLat  *float64   `gorm:"column:journey_start_lat"`
	JourneyStartLng  *float64   `gorm:"column:journey_start_lng"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at"`
	CancelledAt      *time.Time `gorm:"column:cancelled_at"`

	DeliveryNotes  *string `gorm:"column:delivery_notes;type:text"`
	DeliveryRating *int    `gorm:"column:delivery_rating"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PickupReady reports whether a pilot may scan or claim the order.
func (o Order) PickupReady() bool {
	return o.Status == enums.OrderStatusDispatched && o.AssignedPilotID == nil
}
