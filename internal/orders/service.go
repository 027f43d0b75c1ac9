package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/pickpackz-backend/internal/progress"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	"github.com/angelmondragon/pickpackz-backend/pkg/metrics"
	"github.com/angelmondragon/pickpackz-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockMover adjusts available stock inside the caller's transaction so pick
// bookkeeping and the inventory movement commit or roll back together.
type StockMover interface {
	ReserveInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error
	ReleaseInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error
}

// Service owns the order lifecycle: creation, pick/pack bookkeeping, status
// transitions, and the listing queries the warehouse UI polls.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, ref string) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	ListAvailableForPicking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error)
	ListReadyForPacking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error)
	ListPacked(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error)
	RecordPick(ctx context.Context, input RecordPickInput) (*models.Order, error)
	ConfirmPicked(ctx context.Context, ref string, actor Actor) (*models.Order, error)
	RecordPack(ctx context.Context, input RecordPackInput) (*models.Order, error)
	ConfirmPacked(ctx context.Context, input ConfirmPackedInput) (*models.Order, error)
	MarkShipped(ctx context.Context, ref string, actor Actor) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
}

type service struct {
	repo            Repository
	tx              txRunner
	stock           StockMover
	metrics         *metrics.FulfillmentMetrics
	logg            *logger.Logger
	restockOnCancel bool
	now             func() time.Time
}

// NewService builds an order lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockMover, fm *metrics.FulfillmentMetrics, logg *logger.Logger, restockOnCancel bool) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock mover required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:            repo,
		tx:              tx,
		stock:           stock,
		metrics:         fm,
		logg:            logg,
		restockOnCancel: restockOnCancel,
		now:             time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.SiteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "site id is required")
	}
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.OrderPriorityNormal
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid priority %q", priority))
	}
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
	}

	orderID := uuid.New()
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orderNumber, err := NextOrderNumber(ctx, repo, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order := &models.Order{
			ID:              orderID,
			OrderNumber:     orderNumber,
			SiteID:          input.SiteID,
			CustomerName:    input.CustomerName,
			CustomerContact: input.CustomerContact,
			ShippingAddress: input.ShippingAddress,
			RequiredBy:      input.RequiredBy,
			Priority:        priority,
			Status:          enums.OrderStatusPending,
		}
		for _, line := range input.Lines {
			order.Lines = append(order.Lines, models.OrderLine{
				ID:         uuid.New(),
				OrderID:    orderID,
				ProductID:  line.ProductID,
				SKU:        line.SKU,
				Name:       line.Name,
				Barcode:    line.Barcode,
				OrderedQty: line.Quantity,
				BinCode:    line.BinCode,
			})
		}

		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, ref string) (*models.Order, error) {
	return s.findByRef(ctx, s.repo, ref)
}

// findByRef resolves either the order UUID or the human order number.
func (s *service) findByRef(ctx context.Context, repo Repository, ref string) (*models.Order, error) {
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}

	var (
		order *models.Order
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = repo.FindByID(ctx, id)
	} else {
		order, err = repo.FindByOrderNumber(ctx, ref)
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
		}
	}
	if filters.Priority != nil && !filters.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid priority %q", *filters.Priority))
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: next}
	for _, order := range rows {
		list.Orders = append(list.Orders, summarize(order))
	}
	return list, nil
}

func (s *service) ListAvailableForPicking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error) {
	return s.List(ctx, ListFilters{
		SiteID:   siteID,
		Statuses: []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusPicking},
	}, params)
}

func (s *service) ListReadyForPacking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error) {
	return s.List(ctx, ListFilters{
		SiteID:   siteID,
		Statuses: []enums.OrderStatus{enums.OrderStatusReadyToPack},
	}, params)
}

func (s *service) ListPacked(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*OrderList, error) {
	return s.List(ctx, ListFilters{
		SiteID:   siteID,
		Statuses: []enums.OrderStatus{enums.OrderStatusPacked},
	}, params)
}

func (s *service) RecordPick(ctx context.Context, input RecordPickInput) (*models.Order, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.LineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, input.OrderRef)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusPicking {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot pick while order is %s", order.Status))
		}

		line, err := repo.FindLine(ctx, input.LineID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
		}
		if line.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}

		if input.Quantity > progress.RemainingToPick(*line) {
			return pkgerrors.New(pkgerrors.CodeOverPick,
				fmt.Sprintf("quantity %d exceeds remaining %d", input.Quantity, progress.RemainingToPick(*line)))
		}

		binCode := line.BinCode
		if input.BinCode != "" && input.BinCode != line.BinCode {
			warnCtx := s.logg.WithFields(ctx, map[string]any{
				"order_number": order.OrderNumber,
				"line_id":      line.ID.String(),
				"expected_bin": line.BinCode,
				"scanned_bin":  input.BinCode,
			})
			s.logg.Warn(warnCtx, "pick scanned from unexpected bin")
			binCode = input.BinCode
		}

		applied, err := repo.ApplyPick(ctx, order.ID, line.ID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply pick")
		}
		if !applied {
			// The guard failed under a concurrent writer. Reload to tell a
			// consumed remainder apart from a committed status change.
			reloaded, err := repo.FindByID(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			if reloaded.Status != enums.OrderStatusPending && reloaded.Status != enums.OrderStatusPicking {
				return pkgerrors.New(pkgerrors.CodeInvalidTransition,
					fmt.Sprintf("cannot pick while order is %s", reloaded.Status))
			}
			return pkgerrors.New(pkgerrors.CodeOverPick, "pick would exceed the ordered quantity")
		}

		if err := s.stock.ReserveInTx(ctx, tx, order.SiteID, binCode, line.ProductID, input.Quantity); err != nil {
			return err
		}

		movement := &models.PickMovement{
			ID:        uuid.New(),
			OrderID:   order.ID,
			LineID:    line.ID,
			ProductID: line.ProductID,
			SiteID:    order.SiteID,
			BinCode:   binCode,
			Quantity:  input.Quantity,
			ActorID:   input.Actor.UserID,
			CreatedAt: s.now().UTC(),
		}
		if err := repo.RecordMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pick movement")
		}

		if order.Status == enums.OrderStatusPending {
			updates := map[string]any{}
			if order.AssignedPickerID == nil && input.Actor.UserID != uuid.Nil {
				picker := input.Actor.UserID
				updates["assigned_picker_id"] = picker
			}
			moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPicking, updates)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start picking")
			}
			if !moved {
				reloaded, err := repo.FindByID(ctx, order.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
				}
				if reloaded.Status != enums.OrderStatusPicking {
					return pkgerrors.New(pkgerrors.CodeInvalidTransition,
						fmt.Sprintf("cannot pick while order is %s", reloaded.Status))
				}
			}
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddUnitsPicked(result.SiteID.String(), input.Quantity)
	return result, nil
}

func (s *service) ConfirmPicked(ctx context.Context, ref string, actor Actor) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, ref)
		if err != nil {
			return err
		}

		// Repeated confirmations are expected from UI retries.
		if order.Status == enums.OrderStatusReadyToPack {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusReadyToPack) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot confirm picking while order is %s", order.Status))
		}
		if !progress.OrderFullyPicked(order.Lines) {
			return pkgerrors.New(pkgerrors.CodeIncompletePicking, "not all lines are fully picked")
		}

		now := s.now().UTC()
		moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPicking, enums.OrderStatusReadyToPack, map[string]any{
			"picked_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm picking")
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		if !moved && reloaded.Status != enums.OrderStatusReadyToPack {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot confirm picking while order is %s", reloaded.Status))
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RecordPack(ctx context.Context, input RecordPackInput) (*models.Order, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.LineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, input.OrderRef)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusReadyToPack {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot pack while order is %s", order.Status))
		}

		line, err := repo.FindLine(ctx, input.LineID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
		}
		if line.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}

		if input.Quantity > progress.RemainingToPack(*line) {
			return pkgerrors.New(pkgerrors.CodeOverPack,
				fmt.Sprintf("quantity %d exceeds unpacked picked units %d", input.Quantity, progress.RemainingToPack(*line)))
		}

		applied, err := repo.ApplyPack(ctx, order.ID, line.ID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply pack")
		}
		if !applied {
			reloaded, err := repo.FindByID(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			if reloaded.Status != enums.OrderStatusReadyToPack {
				return pkgerrors.New(pkgerrors.CodeInvalidTransition,
					fmt.Sprintf("cannot pack while order is %s", reloaded.Status))
			}
			return pkgerrors.New(pkgerrors.CodeOverPack, "pack would exceed the picked quantity")
		}

		if order.AssignedPackerID == nil && input.Actor.UserID != uuid.Nil {
			packer := input.Actor.UserID
			if _, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusReadyToPack, enums.OrderStatusReadyToPack, map[string]any{
				"assigned_packer_id": packer,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign packer")
			}
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddUnitsPacked(result.SiteID.String(), input.Quantity)
	return result, nil
}

func (s *service) ConfirmPacked(ctx context.Context, input ConfirmPackedInput) (*models.Order, error) {
	if input.TrackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, input.OrderRef)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusPacked {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusPacked) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot confirm packing while order is %s", order.Status))
		}
		if !progress.OrderFullyPacked(order.Lines) || !progress.OrderFullyPicked(order.Lines) {
			return pkgerrors.New(pkgerrors.CodeIncompletePacking, "not all picked units are packed")
		}

		now := s.now().UTC()
		updates := map[string]any{
			"packed_at":       now,
			"tracking_number": input.TrackingNumber,
		}
		if input.PackageType != "" {
			updates["package_type"] = input.PackageType
		}
		moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusReadyToPack, enums.OrderStatusPacked, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm packing")
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		if !moved && reloaded.Status != enums.OrderStatusPacked {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot confirm packing while order is %s", reloaded.Status))
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) MarkShipped(ctx context.Context, ref string, actor Actor) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, ref)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusShipped) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot ship while order is %s", order.Status))
		}
		if order.TrackingNumber == nil || *order.TrackingNumber == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "tracking number missing")
		}

		now := s.now().UTC()
		moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPacked, enums.OrderStatusShipped, map[string]any{
			"shipped_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shipped")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order status changed concurrently")
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The shipped counter is the single fulfillment statistic; intermediate
	// states never increment it.
	site := result.SiteID.String()
	s.metrics.IncOrdersShipped(site)
	if result.ShippedAt != nil {
		s.metrics.ObserveShipLatency(site, result.ShippedAt.Sub(result.CreatedAt))
	}
	return result, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancel reason is required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, input.OrderRef)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot cancel while order is %s", order.Status))
		}

		// Availability is only decremented at pick time, so the unpicked
		// remainder needs no release. Picked-but-unpacked stock goes back on
		// the shelf only when the restock flag is set; packed units stay out
		// of circulation until someone unpacks and adjusts them manually.
		// Releases replay the recorded pick movements newest first so the
		// stock returns to the bins it was actually scanned from.
		if s.restockOnCancel {
			remaining := make(map[uuid.UUID]int, len(order.Lines))
			for _, line := range order.Lines {
				if restock := line.PickedQty - line.PackedQty; restock > 0 {
					remaining[line.ID] = restock
				}
			}
			if len(remaining) > 0 {
				movements, err := repo.ListMovements(ctx, order.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pick movements")
				}
				for _, mv := range movements {
					left := remaining[mv.LineID]
					if left <= 0 {
						continue
					}
					qty := mv.Quantity
					if qty > left {
						qty = left
					}
					if err := s.stock.ReleaseInTx(ctx, tx, order.SiteID, mv.BinCode, mv.ProductID, qty); err != nil {
						return err
					}
					remaining[mv.LineID] = left - qty
				}
				// Picks that predate the movement log fall back to the
				// line's catalog bin.
				for _, line := range order.Lines {
					if left := remaining[line.ID]; left > 0 {
						if err := s.stock.ReleaseInTx(ctx, tx, order.SiteID, line.BinCode, line.ProductID, left); err != nil {
							return err
						}
					}
				}
			}
		}

		now := s.now().UTC()
		moved, err := repo.TransitionStatus(ctx, order.ID, order.Status, enums.OrderStatusCancelled, map[string]any{
			"cancelled_at":  now,
			"cancel_reason": input.Reason,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order status changed concurrently")
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrdersCancelled(result.SiteID.String())
	return result, nil
}

// Transition services the generic status endpoint by dispatching to the
// operation that owns the requested edge.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Target))
	}

	switch input.Target {
	case enums.OrderStatusPicking:
		return s.startPicking(ctx, input.OrderRef, input.Actor)
	case enums.OrderStatusReadyToPack:
		return s.ConfirmPicked(ctx, input.OrderRef, input.Actor)
	case enums.OrderStatusPacked:
		return s.ConfirmPacked(ctx, ConfirmPackedInput{
			OrderRef:       input.OrderRef,
			PackageType:    input.PackageType,
			TrackingNumber: input.TrackingNumber,
			Actor:          input.Actor,
		})
	case enums.OrderStatusShipped:
		return s.MarkShipped(ctx, input.OrderRef, input.Actor)
	case enums.OrderStatusCancelled:
		reason := input.Reason
		if reason == "" {
			reason = "cancelled via status endpoint"
		}
		return s.Cancel(ctx, CancelInput{OrderRef: input.OrderRef, Reason: reason, Actor: input.Actor})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("no transition targets %s", input.Target))
	}
}

// startPicking assigns the picker and moves a pending order to picking
// without recording a pick, covering pick-list claim flows.
func (s *service) startPicking(ctx context.Context, ref string, actor Actor) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByRef(ctx, repo, ref)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusPicking {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(enums.OrderStatusPicking) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot start picking while order is %s", order.Status))
		}
		if len(order.Lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order has no lines to pick")
		}

		updates := map[string]any{}
		if order.AssignedPickerID == nil && actor.UserID != uuid.Nil {
			picker := actor.UserID
			updates["assigned_picker_id"] = picker
		}
		moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPicking, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start picking")
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		if !moved && reloaded.Status != enums.OrderStatusPicking {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot start picking while order is %s", reloaded.Status))
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func summarize(order models.Order) OrderSummary {
	totalUnits := 0
	for _, line := range order.Lines {
		totalUnits += line.OrderedQty
	}
	return OrderSummary{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SiteID:          order.SiteID,
		Status:          order.Status,
		Priority:        order.Priority,
		CustomerName:    order.CustomerName,
		RequiredBy:      order.RequiredBy,
		TotalLines:      len(order.Lines),
		TotalUnits:      totalUnits,
		ProgressPercent: progress.OrderPercent(order.Lines),
		CreatedAt:       order.CreatedAt,
	}
}
