package middleware

import (
	"net/http"

	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
)

// RequireRole admits any of the listed roles. Admins pass every check; floor
// role gates exist to keep pick scanners out of pack endpoints, not to fence
// off supervisors.
func RequireRole(logg *logger.Logger, allowed ...enums.ActorRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == string(enums.ActorRoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			for _, a := range allowed {
				if role == string(a) {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
