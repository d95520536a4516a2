package auth

import (
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID uuid.UUID
	Role    enums.ActorRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to customers and admins.
// The subject carries the actor id.
type AccessTokenClaims struct {
	Role enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// ActorID parses the subject into the actor identifier.
func (c *AccessTokenClaims) ActorID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// IsAdmin reports whether the token belongs to a back-office actor.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c.Role.IsAdmin()
}
