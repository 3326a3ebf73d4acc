package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

// Auth verifies the bearer token and seeds the request context with the principal.
func Auth(verifier identity.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, verifier, logg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier identity.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := authenticate(r, verifier, logg)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, verifier identity.Verifier, logg *logger.Logger) (context.Context, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized - No token provided")
	}
	token, err := validators.BearerToken(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Unauthorized - Malformed authorization header")
	}
	if verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "identity verifier not configured")
	}

	principal, err := verifier.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Unauthorized - Invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify token")
	}

	ctx := identity.WithPrincipal(r.Context(), principal)
	if logg != nil {
		ctx = logg.WithFields(logg.WithUserID(ctx, principal.UID), map[string]any{
			"admin": principal.Admin,
		})
	}
	return ctx, nil
}
