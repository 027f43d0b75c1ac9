package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/api/validators"
	pkgAuth "github.com/angelmondragon/pickpackz-backend/pkg/auth"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
)

type devTokenRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=picker packer admin"`
	SiteID string `json:"site_id" validate:"omitempty,uuid"`
}

// DevToken mints an access token for local testing. The route is only
// mounted outside production; real deployments get tokens from the identity
// provider that fronts the warehouse SSO.
func DevToken(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req devTokenRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		payload := pkgAuth.AccessTokenPayload{
			UserID: userID,
			Role:   enums.ActorRole(req.Role),
		}
		if req.SiteID != "" {
			siteID, err := uuid.Parse(req.SiteID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid site id"))
				return
			}
			payload.SiteID = &siteID
		}

		token, err := pkgAuth.MintAccessToken(cfg, time.Now(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"access_token": token})
	}
}
