package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pickpackz-backend/pkg/errors"
)

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":1,"extra":true}`))
	var dest payload
	err := DecodeJSONBody(req, &dest)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	type payload struct {
		Quantity int    `json:"quantity" validate:"required,gt=0"`
		BinCode  string `json:"bin_code" validate:"required"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":-1}`))
	var dest payload
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected typed validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", typed.Details())
	}
	if details["bin_code"] != "is required" {
		t.Fatalf("unexpected bin_code message %q", details["bin_code"])
	}
	if details["quantity"] == "" {
		t.Fatalf("expected a quantity message")
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30", nil)
	got, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("expected default 25, got %d err=%v", got, err)
	}

	req = httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err = ParseQueryInt(req, "limit", 25, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestParseQueryTimeAcceptsBareDates(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2026-08-01", nil)
	got, err := ParseQueryTime(req, "from")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Format("2006-01-02") != "2026-08-01" {
		t.Fatalf("unexpected time %v", got)
	}

	req = httptest.NewRequest("GET", "/?from=yesterday", nil)
	if _, err = ParseQueryTime(req, "from"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryCSV(t *testing.T) {
	req := httptest.NewRequest("GET", "/?status=pending,%20picking,", nil)
	got := ParseQueryCSV(req, "status")
	if len(got) != 2 || got[0] != "pending" || got[1] != "picking" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := BearerToken(req); got != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", got)
	}

	req.Header.Set("Authorization", "raw-token")
	if got := BearerToken(req); got != "raw-token" {
		t.Fatalf("unexpected token %q", got)
	}

	req.Header.Del("Authorization")
	if got := BearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}
