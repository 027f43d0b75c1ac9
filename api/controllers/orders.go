package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/api/middleware"
	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/api/validators"
	"github.com/angelmondragon/pickpackz-backend/internal/orders"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	"github.com/angelmondragon/pickpackz-backend/pkg/pagination"
)

func actorFromContext(r *http.Request) (orders.Actor, error) {
	rawUser := middleware.UserIDFromContext(r.Context())
	if rawUser == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role := enums.ActorRole(middleware.RoleFromContext(r.Context()))
	if !role.IsValid() {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeForbidden, "unknown actor role")
	}
	return orders.Actor{UserID: userID, Role: role}, nil
}

func orderRef(r *http.Request) (string, error) {
	ref := strings.TrimSpace(chi.URLParam(r, "orderRef"))
	if ref == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	return ref, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// siteFilter prefers the explicit query parameter and falls back to the
// site carried by the access token.
func siteFilter(r *http.Request) (*uuid.UUID, error) {
	if siteID, err := validators.ParseQueryUUID(r, "site_id"); err != nil || siteID != nil {
		return siteID, err
	}
	if raw := middleware.SiteIDFromContext(r.Context()); raw != "" {
		siteID, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid site id")
		}
		return &siteID, nil
	}
	return nil, nil
}

type createOrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	SKU       string `json:"sku" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	BinCode   string `json:"bin_code" validate:"required"`
}

type createOrderRequest struct {
	SiteID          string                   `json:"site_id" validate:"required,uuid"`
	CustomerName    string                   `json:"customer_name" validate:"required"`
	CustomerContact string                   `json:"customer_contact"`
	ShippingAddress string                   `json:"shipping_address" validate:"required"`
	RequiredBy      *time.Time               `json:"required_by"`
	Priority        string                   `json:"priority"`
	Lines           []createOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateOrder opens a new order in pending.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		siteID, err := uuid.Parse(req.SiteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid site id"))
			return
		}

		input := orders.CreateOrderInput{
			SiteID:          siteID,
			CustomerName:    validators.SanitizeString(req.CustomerName, 200),
			CustomerContact: validators.SanitizeString(req.CustomerContact, 200),
			ShippingAddress: validators.SanitizeString(req.ShippingAddress, 500),
			RequiredBy:      req.RequiredBy,
			Priority:        enums.OrderPriority(req.Priority),
			Lines:           make([]orders.CreateOrderLineInput, 0, len(req.Lines)),
		}
		for _, line := range req.Lines {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.Lines = append(input.Lines, orders.CreateOrderLineInput{
				ProductID: productID,
				SKU:       validators.SanitizeString(line.SKU, 100),
				Name:      validators.SanitizeString(line.Name, 200),
				Barcode:   validators.SanitizeString(line.Barcode, 100),
				Quantity:  line.Quantity,
				BinCode:   validators.SanitizeString(line.BinCode, 50),
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.NewOrderDetail(order))
	}
}

// ListOrders returns a cursor page of order summaries. Status accepts a
// comma-separated list so dashboards can combine lifecycle stages.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		siteID, err := siteFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.ListFilters{
			SiteID: siteID,
			Query:  validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}
		for _, raw := range validators.ParseQueryCSV(r, "status") {
			filters.Statuses = append(filters.Statuses, enums.OrderStatus(raw))
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
			priority := enums.OrderPriority(raw)
			filters.Priority = &priority
		}
		if filters.DateFrom, err = validators.ParseQueryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryTime(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderDetail resolves an order by id or order number.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

type updateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	PackageType    string `json:"package_type"`
	TrackingNumber string `json:"tracking_number"`
	Reason         string `json:"reason"`
}

// UpdateOrderStatus is the coarse transition endpoint; the dedicated action
// endpoints below remain the primary scanner surface.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Transition(r.Context(), orders.TransitionInput{
			OrderRef:       ref,
			Target:         enums.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
			PackageType:    validators.SanitizeString(req.PackageType, 50),
			TrackingNumber: validators.SanitizeString(req.TrackingNumber, 100),
			Reason:         validators.SanitizeString(req.Reason, 500),
			Actor:          actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

type pickRequest struct {
	LineID   string `json:"line_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	BinCode  string `json:"bin_code" validate:"required"`
}

// PickItem records one pick scan against an order line.
func PickItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req pickRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := uuid.Parse(req.LineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		order, err := svc.RecordPick(r.Context(), orders.RecordPickInput{
			OrderRef: ref,
			LineID:   lineID,
			Quantity: req.Quantity,
			BinCode:  validators.SanitizeString(req.BinCode, 50),
			Actor:    actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

// ConfirmPicked moves a fully picked order to ready_to_pack.
func ConfirmPicked(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPicked(r.Context(), ref, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

type packRequest struct {
	LineID   string `json:"line_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// PackItem records packed units against an order line.
func PackItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req packRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := uuid.Parse(req.LineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		order, err := svc.RecordPack(r.Context(), orders.RecordPackInput{
			OrderRef: ref,
			LineID:   lineID,
			Quantity: req.Quantity,
			Actor:    actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

type confirmPackedRequest struct {
	PackageType    string `json:"package_type" validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"required"`
}

// ConfirmPacked finalizes packing with the shipping package details.
func ConfirmPacked(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req confirmPackedRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPacked(r.Context(), orders.ConfirmPackedInput{
			OrderRef:       ref,
			PackageType:    validators.SanitizeString(req.PackageType, 50),
			TrackingNumber: validators.SanitizeString(req.TrackingNumber, 100),
			Actor:          actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

// ShipOrder marks a packed order as handed to the carrier.
func ShipOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MarkShipped(r.Context(), ref, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelOrder cancels any non-terminal order.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := orderRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orders.CancelInput{
			OrderRef: ref,
			Reason:   validators.SanitizeString(req.Reason, 500),
			Actor:    actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderDetail(order))
	}
}

// PickQueue lists orders available to pickers.
func PickQueue(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return queueHandler(svc.ListAvailableForPicking, logg)
}

// PackQueue lists orders waiting at the pack bench.
func PackQueue(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return queueHandler(svc.ListReadyForPacking, logg)
}

// PackedQueue lists orders awaiting carrier pickup.
func PackedQueue(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return queueHandler(svc.ListPacked, logg)
}

func queueHandler(list func(ctx context.Context, siteID *uuid.UUID, params pagination.Params) (*orders.OrderList, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		siteID, err := siteFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := list(r.Context(), siteID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
