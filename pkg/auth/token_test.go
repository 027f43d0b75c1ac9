package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "pickpackz",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	siteID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Role:   enums.ActorRolePicker,
		SiteID: &siteID,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.ActorRolePicker {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.SiteID == nil || *claims.SiteID != siteID {
		t.Fatalf("site id not preserved")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRoleAdmin}

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: "pickpackz", ExpirationMinutes: 10},
			payload: payload,
			wantErr: "jwt secret",
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: "secret", ExpirationMinutes: 10},
			payload: payload,
			wantErr: "jwt issuer",
		},
		{
			name:    "zero expiration",
			cfg:     config.JWTConfig{Secret: "secret", Issuer: "pickpackz"},
			payload: payload,
			wantErr: "expiration minutes",
		},
		{
			name:    "invalid role",
			cfg:     config.JWTConfig{Secret: "secret", Issuer: "pickpackz", ExpirationMinutes: 10},
			payload: AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRole("intern")},
			wantErr: "invalid actor role",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MintAccessToken(tc.cfg, now, tc.payload)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "pickpackz",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRolePacker})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "pickpackz",
		ExpirationMinutes: 5,
	}
	issued := time.Now().Add(-time.Hour)

	token, err := MintAccessToken(cfg, issued, AccessTokenPayload{UserID: uuid.New(), Role: enums.ActorRolePicker})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token rejection")
	}
}
