package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/angelmondragon/pickpackz-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their lines.
// ApplyPick, ApplyPack, and TransitionStatus are single guarded statements;
// a false return means the precondition no longer held when the update ran.
// The quantity guards also predicate on the order's current status so a
// concurrently committed transition cannot be mutated past.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error)
	ListLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	ApplyPick(ctx context.Context, orderID, lineID uuid.UUID, qty int) (bool, error)
	ApplyPack(ctx context.Context, orderID, lineID uuid.UUID, qty int) (bool, error)
	RecordMovement(ctx context.Context, movement *models.PickMovement) error
	ListMovements(ctx context.Context, orderID uuid.UUID) ([]models.PickMovement, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, string, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_lines.created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_lines.created_at ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) ListLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ApplyPick(ctx context.Context, orderID, lineID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE order_lines
		SET picked_qty = picked_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND order_id = ?
			AND picked_qty + ? <= ordered_qty
			AND order_id IN (SELECT id FROM orders WHERE id = ? AND status IN (?, ?))
	`, qty, lineID, orderID, qty, orderID, enums.OrderStatusPending, enums.OrderStatusPicking)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ApplyPack(ctx context.Context, orderID, lineID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE order_lines
		SET packed_qty = packed_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND order_id = ?
			AND packed_qty + ? <= picked_qty
			AND order_id IN (SELECT id FROM orders WHERE id = ? AND status = ?)
	`, qty, lineID, orderID, qty, orderID, enums.OrderStatusReadyToPack)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) RecordMovement(ctx context.Context, movement *models.PickMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, orderID uuid.UUID) ([]models.PickMovement, error) {
	var movements []models.PickMovement
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"status": to}
	for key, value := range updates {
		values[key] = value
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, string, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Lines").
		Order("created_at DESC, id DESC").
		Limit(limit)

	if filters.SiteID != nil {
		query = query.Where("site_id = ?", *filters.SiteID)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("order_number LIKE ? OR customer_name LIKE ?", like, like)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", fmt.Errorf("invalid cursor: %w", err)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.NextCursor(last.CreatedAt, last.ID)
	}
	return rows, next, nil
}

func (r *repository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// NextOrderNumber allocates the next human-readable order number for the
// year, e.g. ORD-2026-0042. Runs inside the order creation transaction; the
// unique index on order_number backstops concurrent allocations.
func NextOrderNumber(ctx context.Context, repo Repository, now time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", now.UTC().Year())
	count, err := repo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
