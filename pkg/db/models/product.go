package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entry order lines snapshot from.
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SKU       string    `gorm:"column:sku;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	Barcode   string    `gorm:"column:barcode;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
