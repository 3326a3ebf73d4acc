package identity

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidToken is returned when the identity provider rejects a credential.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the verified caller behind a bearer token.
type Principal struct {
	UID    string
	Email  string
	Name   string
	Admin  bool
	Claims map[string]any
}

// DisplayName falls back from name to email to a placeholder.
func (p Principal) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		return email
	}
	return "Unknown User"
}

// CanAccess reports whether the principal owns ownerID or is an admin.
func (p Principal) CanAccess(ownerID string) bool {
	return p.Admin || (p.UID != "" && p.UID == ownerID)
}

// Verifier resolves a bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

type principalKey struct{}

// WithPrincipal stores the principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UID == "" {
		return Principal{}, false
	}
	return p, true
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func claimTrue(claims map[string]any, key string) bool {
	v, ok := claims[key].(bool)
	return ok && v
}
