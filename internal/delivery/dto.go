package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// LineItem is the client rendering of one order line.
type LineItem struct {
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// OrderDetail is the full order view a pilot gets when scanning or working a
// delivery. The delivery OTP is deliberately absent: the customer presents
// it at handover.
type OrderDetail struct {
	ID               uuid.UUID           `json:"id"`
	OrderCode        string              `json:"orderCode"`
	Status           enums.OrderStatus   `json:"status"`
	Priority         enums.OrderPriority `json:"priority"`
	CustomerName     string              `json:"customerName"`
	CustomerPhone    string              `json:"customerPhone"`
	SupplierName     string              `json:"supplierName"`
	SupplierPhone    string              `json:"supplierPhone"`
	DeliveryAddress  string              `json:"deliveryAddress"`
	DeliveryLat      float64             `json:"deliveryLat"`
	DeliveryLng      float64             `json:"deliveryLng"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	Items            []LineItem          `json:"items"`
	AssignedPilotID  *uuid.UUID          `json:"assignedPilotId,omitempty"`
	ConfirmedAt      time.Time           `json:"confirmedAt"`
	DispatchedAt     *time.Time          `json:"dispatchedAt,omitempty"`
	JourneyStartedAt *time.Time          `json:"journeyStartedAt,omitempty"`
	DeliveredAt      *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time          `json:"cancelledAt,omitempty"`
	DeliveryNotes    *string             `json:"deliveryNotes,omitempty"`
	DeliveryRating   *int                `json:"deliveryRating,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// DetailFromModel maps the persistence row to the client shape.
func DetailFromModel(o *models.Order) OrderDetail {
	items := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, LineItem{
			MaterialName: item.MaterialName,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal,
		})
	}
	return OrderDetail{
		ID:               o.ID,
		OrderCode:        o.OrderCode,
		Status:           o.Status,
		Priority:         o.Priority,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		SupplierName:     o.SupplierName,
		SupplierPhone:    o.SupplierPhone,
		DeliveryAddress:  o.DeliveryAddress,
		DeliveryLat:      o.DeliveryLat,
		DeliveryLng:      o.DeliveryLng,
		TotalAmount:      o.TotalAmount,
		Items:            items,
		AssignedPilotID:  o.AssignedPilotID,
		ConfirmedAt:      o.ConfirmedAt,
		DispatchedAt:     o.DispatchedAt,
		JourneyStartedAt: o.JourneyStartedAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		DeliveryNotes:    o.DeliveryNotes,
		DeliveryRating:   o.DeliveryRating,
		CreatedAt:        o.CreatedAt,
	}
}

// CreateOrderInput is the upstream ingestion payload. Orders land here
// already paid for; this core only owns the delivery lifecycle.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	SupplierName    string
	SupplierPhone   string
	DeliveryAddress string
	DeliveryLat     float64
	DeliveryLng     float64
	Priority        enums.OrderPriority
	Items           []CreateLineItemInput
}

// CreateLineItemInput is one material line on an incoming order.
type CreateLineItemInput struct {
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
}

// StartJourneyInput records where the pilot was when they left the supplier.
type StartJourneyInput struct {
	PilotID uuid.UUID
	OrderID uuid.UUID
	Lat     float64
	Lng     float64
}

// CompleteDeliveryInput closes out a delivery at the customer's door.
type CompleteDeliveryInput struct {
	PilotID uuid.UUID
	OrderID uuid.UUID
	OTP     string
	Notes   *string
	Rating  *int
}

// History wraps a pilot's past deliveries plus page metadata.
type History struct {
	Deliveries []OrderDetail   `json:"deliveries"`
	Meta       pagination.Meta `json:"meta"`
}

// AcceptedEvent fans out to customer and supplier notifications; it carries
// the delivery OTP so the customer copy can include it.
type AcceptedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	PilotID       uuid.UUID `json:"pilot_id"`
	PilotName     string    `json:"pilot_name"`
	PilotPhone    string    `json:"pilot_phone"`
	CustomerPhone string    `json:"customer_phone"`
	SupplierPhone string    `json:"supplier_phone"`
	DeliveryOTP   string    `json:"delivery_otp"`
}

// JourneyStartedEvent marks the pilot leaving the supplier.
type JourneyStartedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
	PilotID   uuid.UUID `json:"pilot_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
}

// CancelledEvent tells both parties the delivery is off.
type CancelledEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	CustomerPhone string    `json:"customer_phone"`
	SupplierPhone string    `json:"supplier_phone"`
}

// DeliveredEvent marks the terminal handover.
type DeliveredEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	PilotID       uuid.UUID `json:"pilot_id"`
	CustomerPhone string    `json:"customer_phone"`
	SupplierPhone string    `json:"supplier_phone"`
	Rating        *int      `json:"rating,omitempty"`
}
