package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// SupportTicket groups a customer or pilot issue with its message thread.
// Lifecycle transitions are enforced in the service layer against the
// allowed-edge table in enums.
type SupportTicket struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketNumber string    `gorm:"column:ticket_number;type:text;not null;uniqueIndex"`

	ReporterID   uuid.UUID       `gorm:"column:reporter_id;type:uuid;not null;index"`
	ReporterRole enums.ActorRole `gorm:"column:reporter_role;type:text;not null"`

	Category enums.TicketCategory `gorm:"column:category;type:text;not null"`
	Priority enums.TicketPriority `gorm:"column:priority;type:text;not null;default:'medium'"`
	Status   enums.TicketStatus   `gorm:"column:status;type:text;not null;default:'open'"`

	Subject     string     `gorm:"column:subject;type:text;not null"`
	Description string     `gorm:"column:description;type:text;not null"`
	OrderID     *uuid.UUID `gorm:"column:order_id;type:uuid;index"`

	ContactPhone    string  `gorm:"column:contact_phone;type:text;not null;default:''"`
	ContactEmail    *string `gorm:"column:contact_email;type:text"`
	RelatedSupplier *string `gorm:"column:related_supplier;type:text"`

	AssignedAdminID *uuid.UUID `gorm:"column:assigned_admin_id;type:uuid;index"`

	Messages   []TicketMessage   `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	AdminNotes []TicketAdminNote `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`

	LastActivityAt time.Time  `gorm:"column:last_activity_at;not null"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at"`
	ClosedAt       *time.Time `gorm:"column:closed_at"`

	SatisfactionRating *int       `gorm:"column:satisfaction_rating"`
	RatingComment      *string    `gorm:"column:rating_comment;type:text"`
	RatedAt            *time.Time `gorm:"column:rated_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
