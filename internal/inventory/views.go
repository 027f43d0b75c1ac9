package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
)

// RecordView is the public shape of one (product, bin) stock slot.
type RecordView struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	BinID             uuid.UUID `json:"bin_id"`
	SiteID            uuid.UUID `json:"site_id"`
	Quantity          int       `json:"quantity"`
	QuantityAvailable int       `json:"quantity_available"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewRecordView(r *models.InventoryRecord) *RecordView {
	if r == nil {
		return nil
	}
	return &RecordView{
		ID:                r.ID,
		ProductID:         r.ProductID,
		BinID:             r.BinID,
		SiteID:            r.SiteID,
		Quantity:          r.Quantity,
		QuantityAvailable: r.QuantityAvailable,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ReceiveView reports a completed goods-in event. CapacityWarning is advisory;
// the receive itself always lands.
type ReceiveView struct {
	Record          *RecordView `json:"record"`
	CapacityWarning bool        `json:"capacity_warning"`
	BinQuantity     int         `json:"bin_quantity"`
	BinCapacity     int         `json:"bin_capacity"`
}

func NewReceiveView(res *ReceiveResult) *ReceiveView {
	if res == nil {
		return nil
	}
	return &ReceiveView{
		Record:          NewRecordView(res.Record),
		CapacityWarning: res.CapacityWarning,
		BinQuantity:     res.BinQuantity,
		BinCapacity:     res.BinCapacity,
	}
}

// AdjustmentView is the public shape of one audit row.
type AdjustmentView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	BinID     uuid.UUID `json:"bin_id"`
	SiteID    uuid.UUID `json:"site_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	ActorID   uuid.UUID `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAdjustmentView(a models.StockAdjustment) AdjustmentView {
	return AdjustmentView{
		ID:        a.ID,
		ProductID: a.ProductID,
		BinID:     a.BinID,
		SiteID:    a.SiteID,
		Delta:     a.Delta,
		Reason:    a.Reason,
		ActorID:   a.ActorID,
		CreatedAt: a.CreatedAt,
	}
}

// BinView is the public shape of one storage location.
type BinView struct {
	ID       uuid.UUID     `json:"id"`
	SiteID   uuid.UUID     `json:"site_id"`
	Code     string        `json:"code"`
	Aisle    string        `json:"aisle"`
	Row      int           `json:"row"`
	Column   int           `json:"column"`
	Capacity int           `json:"capacity"`
	Type     enums.BinType `json:"type"`
}

func NewBinView(b models.Bin) BinView {
	return BinView{
		ID:       b.ID,
		SiteID:   b.SiteID,
		Code:     b.Code,
		Aisle:    b.Aisle,
		Row:      b.Row,
		Column:   b.Column,
		Capacity: b.Capacity,
		Type:     b.Type,
	}
}
