package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// BearerToken extracts the credential from an `Authorization: Bearer <token>` header value.
func BearerToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(raw[7:])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}
