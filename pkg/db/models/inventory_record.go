package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryRecord is one (product, bin) stock slot. Quantity is the physical
// count; QuantityAvailable excludes stock reserved by in-progress picks, so
// 0 <= quantity_available <= quantity holds at all times.
type InventoryRecord struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_inventory_product_bin"`
	BinID             uuid.UUID `gorm:"column:bin_id;type:uuid;not null;uniqueIndex:idx_inventory_product_bin"`
	SiteID            uuid.UUID `gorm:"column:site_id;type:uuid;not null;index"`
	Quantity          int       `gorm:"column:quantity;not null;default:0"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
