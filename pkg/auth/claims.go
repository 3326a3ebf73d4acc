package auth

import "github.com/golang-jwt/jwt/v5"

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID string
	Email  string
	Name   string
	Admin  bool
	JTI    string
}

// TokenClaims represents the typed JWT accepted by the jwt identity provider.
// The subject carries the user id.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}
