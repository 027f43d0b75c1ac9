package orders

import (
	"time"

	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/google/uuid"
)

// ListFilters describe the inputs supported by the order listing queries.
type ListFilters struct {
	SiteID   *uuid.UUID
	Statuses []enums.OrderStatus
	Priority *enums.OrderPriority
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// OrderSummary exposes the aggregated fields returned by list queries.
type OrderSummary struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	SiteID          uuid.UUID           `json:"site_id"`
	Status          enums.OrderStatus   `json:"status"`
	Priority        enums.OrderPriority `json:"priority"`
	CustomerName    string              `json:"customer_name"`
	RequiredBy      *time.Time          `json:"required_by,omitempty"`
	TotalLines      int                 `json:"total_lines"`
	TotalUnits      int                 `json:"total_units"`
	ProgressPercent int                 `json:"progress_percent"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderList wraps paginated order summaries plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Actor identifies the authenticated warehouse user performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.ActorRole
}

// CreateOrderLineInput is one product-quantity entry of a new order. Product
// attributes are snapshotted onto the line so later catalog edits cannot
// rewrite fulfillment history.
type CreateOrderLineInput struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Barcode   string
	Quantity  int
	BinCode   string
}

// CreateOrderInput captures everything required to open a new order.
type CreateOrderInput struct {
	SiteID          uuid.UUID
	CustomerName    string
	CustomerContact string
	ShippingAddress string
	RequiredBy      *time.Time
	Priority        enums.OrderPriority
	Lines           []CreateOrderLineInput
}

// RecordPickInput captures one pick scan against an order line.
type RecordPickInput struct {
	OrderRef string
	LineID   uuid.UUID
	Quantity int
	BinCode  string
	Actor    Actor
}

// RecordPackInput captures one pack action against an order line.
type RecordPackInput struct {
	OrderRef string
	LineID   uuid.UUID
	Quantity int
	Actor    Actor
}

// ConfirmPackedInput finalizes packing with the shipping package details.
type ConfirmPackedInput struct {
	OrderRef       string
	PackageType    string
	TrackingNumber string
	Actor          Actor
}

// CancelInput captures an order cancellation request.
type CancelInput struct {
	OrderRef string
	Reason   string
	Actor    Actor
}

// TransitionInput names a target status for the generic status endpoint.
// Package and tracking details are only consulted for the packed target;
// Reason only for cancellation.
type TransitionInput struct {
	OrderRef       string
	Target         enums.OrderStatus
	PackageType    string
	TrackingNumber string
	Reason         string
	Actor          Actor
}
