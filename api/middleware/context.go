package middleware

import (
	"context"

	"github.com/angelmondragon/biowe-backend/internal/identity"
)

// UserIDFromContext returns the verified caller uid, if any.
func UserIDFromContext(ctx context.Context) string {
	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		return ""
	}
	return p.UID
}

