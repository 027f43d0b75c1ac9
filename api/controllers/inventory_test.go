package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pickpackz-backend/api/middleware"
	"github.com/angelmondragon/pickpackz-backend/internal/inventory"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
)

type stubInventoryService struct {
	receiveFn         func(ctx context.Context, input inventory.ReceiveInput) (*inventory.ReceiveResult, error)
	adjustFn          func(ctx context.Context, input inventory.AdjustInput) (*models.StockAdjustment, error)
	getRecordFn       func(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error)
	listBinsFn        func(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error)
	listAdjustmentsFn func(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error)
}

func (s *stubInventoryService) Reserve(ctx context.Context, productID, binID uuid.UUID, qty int) error {
	return nil
}

func (s *stubInventoryService) Release(ctx context.Context, productID, binID uuid.UUID, qty int) error {
	return nil
}

func (s *stubInventoryService) ReserveInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error {
	return nil
}

func (s *stubInventoryService) ReleaseInTx(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, binCode string, productID uuid.UUID, qty int) error {
	return nil
}

func (s *stubInventoryService) Receive(ctx context.Context, input inventory.ReceiveInput) (*inventory.ReceiveResult, error) {
	if s.receiveFn != nil {
		return s.receiveFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubInventoryService) Adjust(ctx context.Context, input inventory.AdjustInput) (*models.StockAdjustment, error) {
	if s.adjustFn != nil {
		return s.adjustFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubInventoryService) GetRecord(ctx context.Context, productID, binID uuid.UUID) (*models.InventoryRecord, error) {
	if s.getRecordFn != nil {
		return s.getRecordFn(ctx, productID, binID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubInventoryService) ListBins(ctx context.Context, siteID uuid.UUID) ([]models.Bin, error) {
	if s.listBinsFn != nil {
		return s.listBinsFn(ctx, siteID)
	}
	return nil, nil
}

func (s *stubInventoryService) ListAdjustments(ctx context.Context, productID, binID uuid.UUID) ([]models.StockAdjustment, error) {
	if s.listAdjustmentsFn != nil {
		return s.listAdjustmentsFn(ctx, productID, binID)
	}
	return nil, nil
}

func inventoryRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, "admin")
	return req.WithContext(ctx)
}

func TestReceiveStockRecordsDelivery(t *testing.T) {
	productID := uuid.New()
	binID := uuid.New()
	var captured inventory.ReceiveInput
	svc := &stubInventoryService{
		receiveFn: func(_ context.Context, input inventory.ReceiveInput) (*inventory.ReceiveResult, error) {
			captured = input
			return &inventory.ReceiveResult{
				Record:      &models.InventoryRecord{ID: uuid.New(), ProductID: input.ProductID, BinID: input.BinID, Quantity: 40, QuantityAvailable: 40},
				BinQuantity: 40,
				BinCapacity: 100,
			}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","bin_id":"` + binID.String() + `","quantity":40}`
	w := httptest.NewRecorder()
	ReceiveStock(svc, nil)(w, inventoryRequest(http.MethodPost, "/api/v1/inventory/receive", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if captured.ProductID != productID || captured.BinID != binID || captured.Quantity != 40 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.ActorID == uuid.Nil {
		t.Fatalf("expected actor id to be forwarded")
	}
}

func TestReceiveStockRejectsNonPositiveQuantity(t *testing.T) {
	svc := &stubInventoryService{
		receiveFn: func(_ context.Context, _ inventory.ReceiveInput) (*inventory.ReceiveResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","bin_id":"` + uuid.NewString() + `","quantity":0}`
	w := httptest.NewRecorder()
	ReceiveStock(svc, nil)(w, inventoryRequest(http.MethodPost, "/api/v1/inventory/receive", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAdjustStockForwardsReason(t *testing.T) {
	var captured inventory.AdjustInput
	svc := &stubInventoryService{
		adjustFn: func(_ context.Context, input inventory.AdjustInput) (*models.StockAdjustment, error) {
			captured = input
			return &models.StockAdjustment{ID: uuid.New(), Delta: input.Delta, Reason: input.Reason}, nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","bin_id":"` + uuid.NewString() + `","delta":-3,"reason":"damaged in cycle count"}`
	w := httptest.NewRecorder()
	AdjustStock(svc, nil)(w, inventoryRequest(http.MethodPost, "/api/v1/inventory/adjust", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if captured.Delta != -3 || captured.Reason != "damaged in cycle count" {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestAdjustStockRequiresReason(t *testing.T) {
	svc := &stubInventoryService{
		adjustFn: func(_ context.Context, _ inventory.AdjustInput) (*models.StockAdjustment, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `","bin_id":"` + uuid.NewString() + `","delta":-3}`
	w := httptest.NewRecorder()
	AdjustStock(svc, nil)(w, inventoryRequest(http.MethodPost, "/api/v1/inventory/adjust", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestInventoryRecordRequiresCoordinates(t *testing.T) {
	svc := &stubInventoryService{}
	w := httptest.NewRecorder()
	InventoryRecord(svc, nil)(w, inventoryRequest(http.MethodGet, "/api/v1/inventory/records?product_id="+uuid.NewString(), ""))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without bin_id, got %d", w.Code)
	}
}

func TestListBinsUsesTokenSiteFallback(t *testing.T) {
	siteID := uuid.New()
	var captured uuid.UUID
	svc := &stubInventoryService{
		listBinsFn: func(_ context.Context, got uuid.UUID) ([]models.Bin, error) {
			captured = got
			return []models.Bin{{ID: uuid.New(), SiteID: got, Code: "A1-01"}}, nil
		},
	}

	req := inventoryRequest(http.MethodGet, "/api/v1/bins", "")
	req = req.WithContext(middleware.WithSiteID(req.Context(), siteID.String()))
	w := httptest.NewRecorder()
	ListBins(svc, nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if captured != siteID {
		t.Fatalf("expected site %s, got %s", siteID, captured)
	}
}
