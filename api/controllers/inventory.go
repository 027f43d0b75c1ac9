package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/api/middleware"
	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/api/validators"
	"github.com/angelmondragon/pickpackz-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

type receiveRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	BinID     string `json:"bin_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// ReceiveStock records a goods-in delivery against a bin.
func ReceiveStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req receiveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		binID, err := uuid.Parse(req.BinID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bin id"))
			return
		}

		result, err := svc.Receive(r.Context(), inventory.ReceiveInput{
			ProductID: productID,
			BinID:     binID,
			Quantity:  req.Quantity,
			ActorID:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.NewReceiveView(result))
	}
}

type adjustRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	BinID     string `json:"bin_id" validate:"required,uuid"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason" validate:"required"`
}

// AdjustStock applies an audited manual correction.
func AdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adjustRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		binID, err := uuid.Parse(req.BinID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bin id"))
			return
		}

		adjustment, err := svc.Adjust(r.Context(), inventory.AdjustInput{
			ProductID: productID,
			BinID:     binID,
			Delta:     req.Delta,
			Reason:    validators.SanitizeString(req.Reason, 500),
			ActorID:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.NewAdjustmentView(*adjustment))
	}
}

func recordCoordinates(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	productID, err := validators.ParseQueryUUID(r, "product_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	binID, err := validators.ParseQueryUUID(r, "bin_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if productID == nil || binID == nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id and bin_id are required")
	}
	return *productID, *binID, nil
}

// InventoryRecord returns one (product, bin) stock slot.
func InventoryRecord(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, binID, err := recordCoordinates(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecord(r.Context(), productID, binID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.NewRecordView(record))
	}
}

// ListAdjustments returns the audit trail for one stock slot, newest first.
func ListAdjustments(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, binID, err := recordCoordinates(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjustments, err := svc.ListAdjustments(r.Context(), productID, binID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]inventory.AdjustmentView, 0, len(adjustments))
		for _, a := range adjustments {
			views = append(views, inventory.NewAdjustmentView(a))
		}
		responses.WriteSuccess(w, views)
	}
}

// ListBins returns the storage locations of one site.
func ListBins(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteID, err := validators.ParseQueryUUID(r, "site_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if siteID == nil {
			if raw := middleware.SiteIDFromContext(r.Context()); raw != "" {
				parsed, parseErr := uuid.Parse(raw)
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid site id"))
					return
				}
				siteID = &parsed
			}
		}
		if siteID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "site_id is required"))
			return
		}

		bins, err := svc.ListBins(r.Context(), *siteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]inventory.BinView, 0, len(bins))
		for _, b := range bins {
			views = append(views, inventory.NewBinView(b))
		}
		responses.WriteSuccess(w, views)
	}
}
