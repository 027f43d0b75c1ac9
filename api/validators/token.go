package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the credential from an Authorization header. The
// empty string means no usable token was presented.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
