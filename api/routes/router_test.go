package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/angelmondragon/pickpackz-backend/internal/inventory"
	"github.com/angelmondragon/pickpackz-backend/internal/orders"
	pkgAuth "github.com/angelmondragon/pickpackz-backend/pkg/auth"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/pagination"
)

type stubOrdersService struct{}

func (stubOrdersService) Create(context.Context, orders.CreateOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), OrderNumber: "ORD-2026-0001"}, nil
}

func (stubOrdersService) Get(_ context.Context, ref string) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), OrderNumber: ref, Status: enums.OrderStatusPending}, nil
}

func (stubOrdersService) List(context.Context, orders.ListFilters, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}

func (stubOrdersService) ListAvailableForPicking(context.Context, *uuid.UUID, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}

func (stubOrdersService) ListReadyForPacking(context.Context, *uuid.UUID, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}

func (stubOrdersService) ListPacked(context.Context, *uuid.UUID, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}

func (stubOrdersService) RecordPick(context.Context, orders.RecordPickInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPicking}, nil
}

func (stubOrdersService) ConfirmPicked(context.Context, string, orders.Actor) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusReadyToPack}, nil
}

func (stubOrdersService) RecordPack(context.Context, orders.RecordPackInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusReadyToPack}, nil
}

func (stubOrdersService) ConfirmPacked(context.Context, orders.ConfirmPackedInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPacked}, nil
}

func (stubOrdersService) MarkShipped(context.Context, string, orders.Actor) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusShipped}, nil
}

func (stubOrdersService) Cancel(context.Context, orders.CancelInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusCancelled}, nil
}

func (stubOrdersService) Transition(context.Context, orders.TransitionInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) Reserve(context.Context, uuid.UUID, uuid.UUID, int) error { return nil }
func (stubInventoryService) Release(context.Context, uuid.UUID, uuid.UUID, int) error { return nil }

func (stubInventoryService) ReserveInTx(context.Context, *gorm.DB, uuid.UUID, string, uuid.UUID, int) error {
	return nil
}

func (stubInventoryService) ReleaseInTx(context.Context, *gorm.DB, uuid.UUID, string, uuid.UUID, int) error {
	return nil
}

func (stubInventoryService) Receive(context.Context, inventory.ReceiveInput) (*inventory.ReceiveResult, error) {
	return &inventory.ReceiveResult{Record: &models.InventoryRecord{ID: uuid.New()}}, nil
}

func (stubInventoryService) Adjust(context.Context, inventory.AdjustInput) (*models.StockAdjustment, error) {
	return &models.StockAdjustment{ID: uuid.New()}, nil
}

func (stubInventoryService) GetRecord(context.Context, uuid.UUID, uuid.UUID) (*models.InventoryRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
}

func (stubInventoryService) ListBins(context.Context, uuid.UUID) ([]models.Bin, error) {
	return []models.Bin{}, nil
}

func (stubInventoryService) ListAdjustments(context.Context, uuid.UUID, uuid.UUID) ([]models.StockAdjustment, error) {
	return []models.StockAdjustment{}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080", AllowedOrigins: "*"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "pickpackz-test", ExpirationMinutes: 30},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})
}

func bearerFor(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d body=%s", path, w.Code, w.Body.String())
		}
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthorizedListOrders(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, enums.ActorRolePicker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestPickerCannotPack(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})

	body := `{"line_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-2026-0001/pack", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, cfg, enums.ActorRolePicker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminPassesFloorRoleGates(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})

	body := `{"line_id":"` + uuid.NewString() + `","quantity":1,"bin_code":"A1-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-2026-0001/pick", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, cfg, enums.ActorRoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestDevTokenMountedOutsideProd(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})

	body := `{"user_id":"` + uuid.NewString() + `","role":"picker"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dev/token", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	prodCfg := testConfig()
	prodCfg.App.Env = "prod"
	prodRouter := NewRouter(prodCfg, nil, stubPinger{}, nil, prometheus.NewRegistry(), stubOrdersService{}, stubInventoryService{})

	w = httptest.NewRecorder()
	prodRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dev/token", strings.NewReader(body)))
	if w.Code == http.StatusOK {
		t.Fatalf("dev token must not be mounted in prod, got %d", w.Code)
	}
}
