package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
)

// AdminClaim is the custom claim that grants admin access.
const AdminClaim = "admin"

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks ID tokens with Firebase Authentication.
type FirebaseVerifier struct {
	client tokenVerifier
}

func NewFirebaseVerifier(client tokenVerifier) (*FirebaseVerifier, error) {
	if client == nil {
		return nil, errors.New("firebase auth client required")
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	if strings.TrimSpace(token) == "" {
		return Principal{}, ErrInvalidToken
	}
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if decoded == nil || decoded.UID == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		UID:    decoded.UID,
		Email:  claimString(decoded.Claims, "email"),
		Name:   claimString(decoded.Claims, "name"),
		Admin:  claimTrue(decoded.Claims, AdminClaim),
		Claims: decoded.Claims,
	}, nil
}
