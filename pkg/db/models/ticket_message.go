package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// TicketMessage is an append-only thread entry. Internal messages are admin
// collaboration notes and never leave the admin surface.
type TicketMessage struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID uuid.UUID `gorm:"column:ticket_id;type:uuid;not null;index"`

	SenderID   uuid.UUID              `gorm:"column:sender_id;type:uuid;not null"`
	SenderRole enums.TicketSenderType `gorm:"column:sender_role;type:text;not null"`

	Body        string   `gorm:"column:body;type:text;not null"`
	Attachments []string `gorm:"column:attachments;type:jsonb;serializer:json"`
	IsInternal  bool     `gorm:"column:is_internal;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
