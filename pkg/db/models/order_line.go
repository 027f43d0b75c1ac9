package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine is one product-quantity entry within an order. Quantities obey
// 0 <= picked_qty <= ordered_qty and 0 <= packed_qty <= picked_qty; the
// repository enforces both with guarded single-statement updates.
type OrderLine struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	SKU        string    `gorm:"column:sku;not null"`
	Name       string    `gorm:"column:name;not null"`
	Barcode    string    `gorm:"column:barcode;not null"`
	OrderedQty int       `gorm:"column:ordered_qty;not null"`
	PickedQty  int       `gorm:"column:picked_qty;not null;default:0"`
	PackedQty  int       `gorm:"column:packed_qty;not null;default:0"`
	BinCode    string    `gorm:"column:bin_code;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
