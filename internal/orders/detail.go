package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/internal/progress"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
)

// LineDetail is the public shape of one order line, including the remaining
// work counters the handheld UIs render next to each row.
type LineDetail struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Barcode         string    `json:"barcode"`
	BinCode         string    `json:"bin_code"`
	OrderedQty      int       `json:"ordered_qty"`
	PickedQty       int       `json:"picked_qty"`
	PackedQty       int       `json:"packed_qty"`
	RemainingToPick int       `json:"remaining_to_pick"`
	RemainingToPack int       `json:"remaining_to_pack"`
}

// OrderDetail is the full public shape of an order.
type OrderDetail struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	SiteID           uuid.UUID           `json:"site_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerContact  string              `json:"customer_contact"`
	ShippingAddress  string              `json:"shipping_address"`
	RequiredBy       *time.Time          `json:"required_by,omitempty"`
	Priority         enums.OrderPriority `json:"priority"`
	Status           enums.OrderStatus   `json:"status"`
	AssignedPickerID *uuid.UUID          `json:"assigned_picker_id,omitempty"`
	AssignedPackerID *uuid.UUID          `json:"assigned_packer_id,omitempty"`
	PackageType      *string             `json:"package_type,omitempty"`
	TrackingNumber   *string             `json:"tracking_number,omitempty"`
	CancelReason     *string             `json:"cancel_reason,omitempty"`
	PickedAt         *time.Time          `json:"picked_at,omitempty"`
	PackedAt         *time.Time          `json:"packed_at,omitempty"`
	ShippedAt        *time.Time          `json:"shipped_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	ProgressPercent  int                 `json:"progress_percent"`
	Lines            []LineDetail        `json:"lines"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// NewOrderDetail maps a loaded order onto its public shape.
func NewOrderDetail(o *models.Order) *OrderDetail {
	if o == nil {
		return nil
	}

	lines := make([]LineDetail, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, LineDetail{
			ID:              line.ID,
			ProductID:       line.ProductID,
			SKU:             line.SKU,
			Name:            line.Name,
			Barcode:         line.Barcode,
			BinCode:         line.BinCode,
			OrderedQty:      line.OrderedQty,
			PickedQty:       line.PickedQty,
			PackedQty:       line.PackedQty,
			RemainingToPick: progress.RemainingToPick(line),
			RemainingToPack: progress.RemainingToPack(line),
		})
	}

	return &OrderDetail{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		SiteID:           o.SiteID,
		CustomerName:     o.CustomerName,
		CustomerContact:  o.CustomerContact,
		ShippingAddress:  o.ShippingAddress,
		RequiredBy:       o.RequiredBy,
		Priority:         o.Priority,
		Status:           o.Status,
		AssignedPickerID: o.AssignedPickerID,
		AssignedPackerID: o.AssignedPackerID,
		PackageType:      o.PackageType,
		TrackingNumber:   o.TrackingNumber,
		CancelReason:     o.CancelReason,
		PickedAt:         o.PickedAt,
		PackedAt:         o.PackedAt,
		ShippedAt:        o.ShippedAt,
		CancelledAt:      o.CancelledAt,
		ProgressPercent:  progress.OrderPercent(o.Lines),
		Lines:            lines,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
