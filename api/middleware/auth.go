package middleware

import (
	"net/http"

	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/api/validators"
	pkgAuth "github.com/angelmondragon/pickpackz-backend/pkg/auth"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			if claims.SiteID != nil {
				ctx = WithSiteID(ctx, claims.SiteID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				}
				if claims.SiteID != nil {
					fields["site_id"] = claims.SiteID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
