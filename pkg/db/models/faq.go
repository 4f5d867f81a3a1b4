package models

import (
	"time"

	"github.com/google/uuid"
)

type FAQ struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category string    `gorm:"column:category;type:text;not null;index"`
	Question string    `gorm:"column:question;type:text;not null"`
	Answer   string    `gorm:"column:answer;type:text;not null"`
	SortKey  int       `gorm:"column:sort_key;not null;default:0"`
	IsActive bool      `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
