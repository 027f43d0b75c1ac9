package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
)

// Bin is a fixed addressable storage location. Reference data: the order
// lifecycle reads bins but never mutates them.
type Bin struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	SiteID    uuid.UUID     `gorm:"column:site_id;type:uuid;not null;uniqueIndex:idx_bins_site_code"`
	Code      string        `gorm:"column:code;not null;uniqueIndex:idx_bins_site_code"`
	Aisle     string        `gorm:"column:aisle;not null"`
	Row       int           `gorm:"column:row;not null"`
	Column    int           `gorm:"column:col;not null"`
	Capacity  int           `gorm:"column:capacity;not null;default:0"`
	Type      enums.BinType `gorm:"column:type;type:text;not null;default:'shelf'"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
