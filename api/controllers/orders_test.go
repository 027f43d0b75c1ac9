package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/api/middleware"
	"github.com/angelmondragon/pickpackz-backend/internal/orders"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/pagination"
)

type stubOrdersService struct {
	createFn     func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
	getFn        func(ctx context.Context, ref string) (*models.Order, error)
	listFn       func(ctx context.Context, filters orders.ListFilters, params pagination.Params) (*orders.OrderList, error)
	recordPickFn func(ctx context.Context, input orders.RecordPickInput) (*models.Order, error)
	cancelFn     func(ctx context.Context, input orders.CancelInput) (*models.Order, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) Get(ctx context.Context, ref string) (*models.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, ref)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) List(ctx context.Context, filters orders.ListFilters, params pagination.Params) (*orders.OrderList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters, params)
	}
	return &orders.OrderList{}, nil
}

func (s *stubOrdersService) ListAvailableForPicking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersService) ListReadyForPacking(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersService) ListPacked(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersService) RecordPick(ctx context.Context, input orders.RecordPickInput) (*models.Order, error) {
	if s.recordPickFn != nil {
		return s.recordPickFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) ConfirmPicked(ctx context.Context, ref string, actor orders.Actor) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) RecordPack(ctx context.Context, input orders.RecordPackInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) ConfirmPacked(ctx context.Context, input orders.ConfirmPackedInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) MarkShipped(ctx context.Context, ref string, actor orders.Actor) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) Cancel(ctx context.Context, input orders.CancelInput) (*models.Order, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func (s *stubOrdersService) Transition(ctx context.Context, input orders.TransitionInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not stubbed")
}

func authedRequest(method, target, pattern, ref string, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	if ref != "" {
		rc.URLParams.Add("orderRef", ref)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	ctx = middleware.WithRole(ctx, string(enums.ActorRolePicker))
	return req.WithContext(ctx)
}

func TestPickItemRecordsScan(t *testing.T) {
	lineID := uuid.New()
	var captured orders.RecordPickInput
	svc := &stubOrdersService{
		recordPickFn: func(_ context.Context, input orders.RecordPickInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: uuid.New(), OrderNumber: "ORD-2026-0001", Status: enums.OrderStatusPicking}, nil
		},
	}

	body := `{"line_id":"` + lineID.String() + `","quantity":2,"bin_code":"A1-03"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders/ORD-2026-0001/pick", "/api/v1/orders/{orderRef}/pick", "ORD-2026-0001", body)
	w := httptest.NewRecorder()
	PickItem(svc, nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if captured.OrderRef != "ORD-2026-0001" {
		t.Fatalf("unexpected ref %q", captured.OrderRef)
	}
	if captured.LineID != lineID || captured.Quantity != 2 || captured.BinCode != "A1-03" {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Actor.Role != enums.ActorRolePicker {
		t.Fatalf("unexpected actor role %s", captured.Actor.Role)
	}
}

func TestPickItemRejectsBadBody(t *testing.T) {
	svc := &stubOrdersService{
		recordPickFn: func(_ context.Context, _ orders.RecordPickInput) (*models.Order, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	tests := []struct {
		name string
		body string
	}{
		{"missing line", `{"quantity":2,"bin_code":"A1-03"}`},
		{"zero quantity", `{"line_id":"` + uuid.NewString() + `","quantity":0,"bin_code":"A1-03"}`},
		{"line id not uuid", `{"line_id":"widget","quantity":1,"bin_code":"A1-03"}`},
		{"unknown field", `{"line_id":"` + uuid.NewString() + `","quantity":1,"bin_code":"A1-03","extra":1}`},
	}

	for _, tt := range tests {
		req := authedRequest(http.MethodPost, "/api/v1/orders/x/pick", "/api/v1/orders/{orderRef}/pick", "x", tt.body)
		w := httptest.NewRecorder()
		PickItem(svc, nil)(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.name, w.Code)
		}
	}
}

func TestPickItemMapsOverPick(t *testing.T) {
	svc := &stubOrdersService{
		recordPickFn: func(_ context.Context, _ orders.RecordPickInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeOverPick, "pick exceeds remaining quantity").
				WithDetails(map[string]int{"remaining": 1})
		},
	}

	body := `{"line_id":"` + uuid.NewString() + `","quantity":5,"bin_code":"A1-03"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders/x/pick", "/api/v1/orders/{orderRef}/pick", "x", body)
	w := httptest.NewRecorder()
	PickItem(svc, nil)(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != "OVER_PICK" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestCancelOrderRequiresReason(t *testing.T) {
	svc := &stubOrdersService{
		cancelFn: func(_ context.Context, _ orders.CancelInput) (*models.Order, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/orders/x/cancel", "/api/v1/orders/{orderRef}/cancel", "x", `{}`)
	w := httptest.NewRecorder()
	CancelOrder(svc, nil)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListOrdersParsesFilters(t *testing.T) {
	var captured orders.ListFilters
	svc := &stubOrdersService{
		listFn: func(_ context.Context, filters orders.ListFilters, _ pagination.Params) (*orders.OrderList, error) {
			captured = filters
			return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/orders?status=pending,picking&priority=urgent&q=acme", "/api/v1/orders", "", "")
	w := httptest.NewRecorder()
	ListOrders(svc, nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if len(captured.Statuses) != 2 || captured.Statuses[0] != enums.OrderStatusPending || captured.Statuses[1] != enums.OrderStatusPicking {
		t.Fatalf("unexpected statuses %v", captured.Statuses)
	}
	if captured.Priority == nil || *captured.Priority != enums.OrderPriorityUrgent {
		t.Fatalf("unexpected priority %v", captured.Priority)
	}
	if captured.Query != "acme" {
		t.Fatalf("unexpected query %q", captured.Query)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{
		getFn: func(_ context.Context, ref string) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/orders/ORD-2026-9999", "/api/v1/orders/{orderRef}", "ORD-2026-9999", "")
	w := httptest.NewRecorder()
	OrderDetail(svc, nil)(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
