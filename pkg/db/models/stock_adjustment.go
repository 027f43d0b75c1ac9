package models

import (
	"time"

	"github.com/google/uuid"
)

// StockAdjustment is the audit row written for every manual correction made
// outside the normal pick/receive flow. Reason is mandatory.
type StockAdjustment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	BinID     uuid.UUID `gorm:"column:bin_id;type:uuid;not null;index"`
	SiteID    uuid.UUID `gorm:"column:site_id;type:uuid;not null"`
	Delta     int       `gorm:"column:delta;not null"`
	Reason    string    `gorm:"column:reason;not null"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
