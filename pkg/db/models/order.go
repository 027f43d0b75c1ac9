package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
)

// Order is the fulfillment aggregate root. It exclusively owns its lines;
// deleting the order cascades to them.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex"`
	SiteID           uuid.UUID           `gorm:"column:site_id;type:uuid;not null;index:idx_orders_site_status"`
	CustomerName     string              `gorm:"column:customer_name;not null"`
	CustomerContact  string              `gorm:"column:customer_contact;not null"`
	ShippingAddress  string              `gorm:"column:shipping_address;not null"`
	RequiredBy       *time.Time          `gorm:"column:required_by"`
	Priority         enums.OrderPriority `gorm:"column:priority;type:text;not null;default:'normal'"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending';index:idx_orders_site_status"`
	AssignedPickerID *uuid.UUID          `gorm:"column:assigned_picker_id;type:uuid"`
	AssignedPackerID *uuid.UUID          `gorm:"column:assigned_packer_id;type:uuid"`
	PackageType      *string             `gorm:"column:package_type"`
	TrackingNumber   *string             `gorm:"column:tracking_number"`
	CancelReason     *string             `gorm:"column:cancel_reason"`
	PickedAt         *time.Time          `gorm:"column:picked_at"`
	PackedAt         *time.Time          `gorm:"column:packed_at"`
	ShippedAt        *time.Time          `gorm:"column:shipped_at"`
	CancelledAt      *time.Time          `gorm:"column:cancelled_at"`
	Lines            []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
