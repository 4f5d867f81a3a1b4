package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLineItem struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`

	MaterialName string          `gorm:"column:material_name;type:text;not null"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit         string          `gorm:"column:unit;type:text;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}
