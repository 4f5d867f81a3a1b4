package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// OutboxEvent is a domain event staged in the same transaction as the state
// change that produced it. The publisher drains unpublished rows to Pub/Sub.
type OutboxEvent struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`

	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;type:text;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null;index"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;type:text;not null"`

	Payload json.RawMessage `gorm:"column:payload;type:jsonb;not null"`

	PublishedAt *time.Time `gorm:"column:published_at;index"`
	Attempts    int        `gorm:"column:attempts;not null;default:0"`
	LastError   *string    `gorm:"column:last_error;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
