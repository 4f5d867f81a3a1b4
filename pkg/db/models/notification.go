package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// Notification is a delivered (or attempted) message to a recipient. Rows
// are written by the worker consuming outbox events, so sends survive API
// restarts and are naturally retried.
type Notification struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`

	RecipientID   *uuid.UUID                  `gorm:"column:recipient_id;type:uuid;index"`
	RecipientRole enums.NotificationRecipient `gorm:"column:recipient_role;type:text;not null"`
	Channel       enums.NotificationChannel   `gorm:"column:channel;type:text;not null"`
	Phone         *string                     `gorm:"column:phone;type:text"`

	EventType string `gorm:"column:event_type;type:text;not null;index"`
	Title     string `gorm:"column:title;type:text;not null"`
	Body      string `gorm:"column:body;type:text;not null"`

	Sent    bool       `gorm:"column:sent;not null;default:false"`
	SendErr *string    `gorm:"column:send_err;type:text"`
	ReadAt  *time.Time `gorm:"column:read_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
