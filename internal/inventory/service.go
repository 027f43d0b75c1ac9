package inventory

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the stock ledger operations. Reserve and Release are also
// available in transaction-scoped form so the order lifecycle can fold a
// stock movement into its own atomic pick or cancel transaction.
type Service interface {
	Reserve(ctx context.Context, productID, binID uuid.UUID, qty int) error
	Release(ctx context.Context, productID, binID uuid.UUID, qty int) error
	ReserveInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error
	ReleaseInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error
	Receive(ctx context.Context, input ReceiveInput) (*ReceiveResult, error)
	Adjust(ctx context.Context, input AdjustInput) (*models.StockAdjustment, error)
	GetRecord(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error)
	ListBins(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error)
	ListAdjustments(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error)
}

// ReceiveInput describes a goods-in event against one bin.
type ReceiveInput struct {
	ProductID uuid.UUID
	BinID     uuid.UUID
	Quantity  int
	ActorID   uuid.UUID
}

// ReceiveResult reports the updated record plus an advisory capacity warning.
// Overfilling a bin is allowed; receiving clerks handle overflow physically.
type ReceiveResult struct {
	Record          *models.InventoryRecord
	CapacityWarning bool
	BinQuantity     int
	BinCapacity     int
}

// AdjustInput describes an audited manual stock correction.
type AdjustInput struct {
	ProductID uuid.UUID
	BinID     uuid.UUID
	Delta     int
	Reason    string
	ActorID   uuid.UUID
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Reserve(ctx context.Context, productID, binID uuid.UUID, qty int) error {
	if err := validateQty(qty); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.adjustAvailable(ctx, s.repo.WithTx(tx), productID, binID, -qty)
	})
}

func (s *service) Release(ctx context.Context, productID, binID uuid.UUID, qty int) error {
	if err := validateQty(qty); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.adjustAvailable(ctx, s.repo.WithTx(tx), productID, binID, qty)
	})
}

func (s *service) ReserveInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error {
	if err := validateQty(qty); err != nil {
		return err
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reservation")
	}
	repo := s.repo.WithTx(tx)
	bin, err := repo.FindBinByCode(ctx, siteID, binCode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bin")
	}
	return s.adjustAvailable(ctx, repo, productID, bin.ID, -qty)
}

func (s *service) ReleaseInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error {
	if err := validateQty(qty); err != nil {
		return err
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock release")
	}
	repo := s.repo.WithTx(tx)
	bin, err := repo.FindBinByCode(ctx, siteID, binCode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bin")
	}
	return s.adjustAvailable(ctx, repo, productID, bin.ID, qty)
}

func (s *service) adjustAvailable(ctx context.Context, repo Repository, productID, binID uuid.UUID, delta int) error {
	applied, err := repo.AdjustAvailable(ctx, productID, binID, delta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust available stock")
	}
	if applied {
		return nil
	}
	if _, err := repo.FindRecord(ctx, productID, binID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "available stock cannot satisfy the requested change")
}

func (s *service) Receive(ctx context.Context, input ReceiveInput) (*ReceiveResult, error) {
	if err := validateQty(input.Quantity); err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.BinID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bin id is required")
	}

	result := &ReceiveResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		bin, err := repo.FindBin(ctx, input.BinID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bin not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bin")
		}

		applied, err := repo.ApplyReceive(ctx, input.ProductID, input.BinID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "receive stock")
		}
		if !applied {
			record := &models.InventoryRecord{
				ID:                uuid.New(),
				ProductID:         input.ProductID,
				BinID:             input.BinID,
				SiteID:            bin.SiteID,
				Quantity:          input.Quantity,
				QuantityAvailable: input.Quantity,
			}
			if err := repo.CreateRecord(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory record")
			}
		}

		record, err := repo.FindRecord(ctx, input.ProductID, input.BinID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory record")
		}
		result.Record = record

		total, err := repo.BinQuantityTotal(ctx, input.BinID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "total bin quantity")
		}
		result.BinQuantity = total
		result.BinCapacity = bin.Capacity
		if bin.Capacity > 0 && total > bin.Capacity {
			result.CapacityWarning = true
			warnCtx := s.logg.WithFields(ctx, map[string]any{
				"bin_code":     bin.Code,
				"bin_capacity": bin.Capacity,
				"bin_quantity": total,
			})
			s.logg.Warn(warnCtx, "bin capacity exceeded on receive")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.StockAdjustment, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required for stock adjustments")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var adjustment *models.StockAdjustment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindRecord(ctx, input.ProductID, input.BinID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
		}

		applied, err := repo.ApplyAdjustment(ctx, input.ProductID, input.BinID, input.Delta)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock adjustment")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "adjustment would drive stock negative")
		}

		adjustment = &models.StockAdjustment{
			ID:        uuid.New(),
			ProductID: input.ProductID,
			BinID:     input.BinID,
			SiteID:    record.SiteID,
			Delta:     input.Delta,
			Reason:    input.Reason,
			ActorID:   input.ActorID,
		}
		return repo.CreateAdjustment(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

func (s *service) GetRecord(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error) {
	record, err := s.repo.FindRecord(ctx, productID, binID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return record, nil
}

func (s *service) ListBins(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error) {
	bins, err := s.repo.ListBins(ctx, siteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bins")
	}
	return bins, nil
}

func (s *service) ListAdjustments(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error) {
	adjustments, err := s.repo.ListAdjustments(ctx, productID, binID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock adjustments")
	}
	return adjustments, nil
}

func validateQty(qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return nil
}
