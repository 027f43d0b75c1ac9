package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
)

func roleRequest(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(WithRole(req.Context(), role))
	}
	return req
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	called := false
	handler := RequireRole(nil, enums.ActorRolePicker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest("picker"))

	if !called || w.Code != http.StatusOK {
		t.Fatalf("expected handler to run, status=%d called=%v", w.Code, called)
	}
}

func TestRequireRoleAlwaysAdmitsAdmin(t *testing.T) {
	called := false
	handler := RequireRole(nil, enums.ActorRolePacker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest("admin"))

	if !called {
		t.Fatalf("admin must pass every role gate")
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	handler := RequireRole(nil, enums.ActorRolePacker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest("picker"))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest(""))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without role, got %d", w.Code)
	}
}
