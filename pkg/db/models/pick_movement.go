package models

import (
	"time"

	"github.com/google/uuid"
)

// PickMovement records one pick scan against the bin the stock actually left.
// Cancel restocking replays these rows, so releases land on the scanned bin
// even when it differs from the line's catalog bin.
type PickMovement struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	LineID    uuid.UUID `gorm:"column:line_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	SiteID    uuid.UUID `gorm:"column:site_id;type:uuid;not null"`
	BinCode   string    `gorm:"column:bin_code;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
