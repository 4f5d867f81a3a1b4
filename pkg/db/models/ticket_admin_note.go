package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketAdminNote struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID uuid.UUID `gorm:"column:ticket_id;type:uuid;not null;index"`
	AdminID  uuid.UUID `gorm:"column:admin_id;type:uuid;not null"`

	Note string `gorm:"column:note;type:text;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
