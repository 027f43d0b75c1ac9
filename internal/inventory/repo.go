package inventory

import (
	"context"

	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for inventory records and adjustment audit rows.
// Quantity mutations are single guarded statements so concurrent writers cannot
// drive quantity or quantity_available negative.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRecord(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error)
	FindBin(ctx context.Context, binID uuid.UUID) (*models.Bin, error)
	FindBinByCode(ctx context.Context, siteID uuid.UUID, code string) (*models.Bin, error)
	ListBins(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error)
	CreateRecord(ctx context.Context, record *models.InventoryRecord) error
	AdjustAvailable(ctx context.Context, productID, binID uuid.UUID, delta int) (bool, error)
	ApplyReceive(ctx context.Context, productID, binID uuid.UUID, qty int) (bool, error)
	ApplyAdjustment(ctx context.Context, productID, binID uuid.UUID, delta int) (bool, error)
	BinQuantityTotal(ctx context.Context, binID uuid.UUID) (int, error)
	CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error
	ListAdjustments(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRecord(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND bin_id = ?", productID, binID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindBin(ctx context.Context, binID uuid.UUID) (*models.Bin, error) {
	var bin models.Bin
	if err := r.db.WithContext(ctx).Where("id = ?", binID).First(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *repository) FindBinByCode(ctx context.Context, siteID uuid.UUID, code string) (*models.Bin, error) {
	var bin models.Bin
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND code = ?", siteID, code).
		First(&bin).Error
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *repository) ListBins(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error) {
	var bins []models.Bin
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("code ASC").
		Find(&bins).Error
	if err != nil {
		return nil, err
	}
	return bins, nil
}

func (r *repository) CreateRecord(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// AdjustAvailable moves quantity_available by delta while keeping it inside
// [0, quantity]. The caller inspects the bool to distinguish a failed guard
// from a missing row.
func (r *repository) AdjustAvailable(ctx context.Context, productID, binID uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_records
		SET quantity_available = quantity_available + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND bin_id = ?
			AND quantity_available + ? >= 0
			AND quantity_available + ? <= quantity
	`, delta, productID, binID, delta, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ApplyReceive(ctx context.Context, productID, binID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_records
		SET quantity = quantity + ?,
			quantity_available = quantity_available + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND bin_id = ?
	`, qty, qty, productID, binID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ApplyAdjustment moves both counters by delta, refusing any change that would
// take either below zero.
func (r *repository) ApplyAdjustment(ctx context.Context, productID, binID uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_records
		SET quantity = quantity + ?,
			quantity_available = quantity_available + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND bin_id = ?
			AND quantity + ? >= 0
			AND quantity_available + ? >= 0
	`, delta, delta, productID, binID, delta, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) BinQuantityTotal(ctx context.Context, binID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("bin_id = ?", binID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

func (r *repository) ListAdjustments(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND bin_id = ?", productID, binID).
		Order("created_at DESC, id DESC").
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
