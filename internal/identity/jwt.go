package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/auth"
	"github.com/angelmondragon/biowe-backend/pkg/config"
)

// JWTVerifier accepts HS256 tokens minted with the shared secret.
// Used for local development and tests instead of Firebase.
type JWTVerifier struct {
	cfg config.AuthConfig
	now func() time.Time
}

func NewJWTVerifier(cfg config.AuthConfig, now func() time.Time) (*JWTVerifier, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("jwt secret required")
	}
	if now == nil {
		now = time.Now
	}
	return &JWTVerifier{cfg: cfg, now: now}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (Principal, error) {
	if strings.TrimSpace(token) == "" {
		return Principal{}, ErrInvalidToken
	}
	claims, err := auth.ParseToken(v.cfg, token, v.now())
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Principal{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Admin: claims.Admin,
		Claims: map[string]any{
			"email":    claims.Email,
			"name":     claims.Name,
			AdminClaim: claims.Admin,
		},
	}, nil
}

// Mint issues a token for p; handy for local tooling and handler tests.
func (v *JWTVerifier) Mint(p Principal) (string, error) {
	return auth.MintToken(v.cfg, v.now(), auth.TokenPayload{
		UserID: p.UID,
		Email:  p.Email,
		Name:   p.Name,
		Admin:  p.Admin,
	})
}
