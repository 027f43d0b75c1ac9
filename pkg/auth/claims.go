package auth

import (
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.ActorRole
	SiteID *uuid.UUID
	JTI    string
}

// AccessTokenClaims represents the typed JWT carried by warehouse clients.
// SiteID scopes pickers and packers to a single site; admins may omit it.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   enums.ActorRole `json:"role"`
	SiteID *uuid.UUID      `json:"site_id,omitempty"`
	jwt.RegisteredClaims
}
