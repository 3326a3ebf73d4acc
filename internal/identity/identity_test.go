package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func TestPrincipalDisplayName(t *testing.T) {
	assert.Equal(t, "Asha", Principal{Name: "Asha", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "a@b.c", Principal{Name: "  ", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "Unknown User", Principal{}.DisplayName())
}

func TestPrincipalCanAccess(t *testing.T) {
	owner := Principal{UID: "u1"}
	assert.True(t, owner.CanAccess("u1"))
	assert.False(t, owner.CanAccess("u2"))
	assert.True(t, Principal{UID: "admin", Admin: true}.CanAccess("u2"))
	assert.False(t, Principal{}.CanAccess(""))
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UID: "u1", Admin: true})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UID)
	assert.True(t, p.Admin)
}

func TestFirebaseVerifierMapsClaims(t *testing.T) {
	stub := &stubTokenVerifier{token: &auth.Token{
		UID: "u1",
		Claims: map[string]interface{}{
			"email": "a@b.c",
			"name":  "Asha",
			"admin": true,
		},
	}}
	v, err := NewFirebaseVerifier(stub)
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "tok", stub.got)
	assert.Equal(t, Principal{UID: "u1", Email: "a@b.c", Name: "Asha", Admin: true, Claims: stub.token.Claims}, p)
}

func TestFirebaseVerifierAdminClaimMustBeTrue(t *testing.T) {
	stub := &stubTokenVerifier{token: &auth.Token{UID: "u1", Claims: map[string]interface{}{"admin": "true"}}}
	v, err := NewFirebaseVerifier(stub)
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, p.Admin)
}

func TestFirebaseVerifierRejects(t *testing.T) {
	v, err := NewFirebaseVerifier(&stubTokenVerifier{err: errors.New("expired")})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewFirebaseVerifier(nil)
	assert.Error(t, err)
}

func TestJWTVerifierRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := config.AuthConfig{Provider: config.AuthProviderJWT, JWTSecret: "secret", JWTIssuer: "biowe", JWTTTL: time.Hour}
	v, err := NewJWTVerifier(cfg, func() time.Time { return now })
	require.NoError(t, err)

	token, err := v.Mint(Principal{UID: "u1", Email: "a@b.c", Name: "Asha", Admin: true})
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UID)
	assert.Equal(t, "a@b.c", p.Email)
	assert.Equal(t, "Asha", p.Name)
	assert.True(t, p.Admin)
}

func TestJWTVerifierRejectsExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := config.AuthConfig{Provider: config.AuthProviderJWT, JWTSecret: "secret", JWTIssuer: "biowe", JWTTTL: time.Minute}
	minter, err := NewJWTVerifier(cfg, func() time.Time { return now })
	require.NoError(t, err)
	token, err := minter.Mint(Principal{UID: "u1"})
	require.NoError(t, err)

	later, err := NewJWTVerifier(cfg, func() time.Time { return now.Add(time.Hour) })
	require.NoError(t, err)
	_, err = later.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTVerifier(config.AuthConfig{}, nil)
	assert.Error(t, err)
}

type stubUserClient struct {
	record *auth.UserRecord
	claims map[string]interface{}
	uid    string
}

func (s *stubUserClient) Users(context.Context, string) *auth.UserIterator { return nil }

func (s *stubUserClient) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if s.record == nil {
		return nil, errors.New("not found")
	}
	return s.record, nil
}

func (s *stubUserClient) SetCustomUserClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	s.uid = uid
	s.claims = claims
	return nil
}

func TestSetAdminMergesClaims(t *testing.T) {
	stub := &stubUserClient{record: &auth.UserRecord{
		UserInfo:     &auth.UserInfo{UID: "u1"},
		CustomClaims: map[string]interface{}{"tier": "gold"},
	}}
	dir, err := NewFirebaseDirectory(stub)
	require.NoError(t, err)

	require.NoError(t, dir.SetAdmin(context.Background(), "u1", true))
	assert.Equal(t, "u1", stub.uid)
	assert.Equal(t, map[string]interface{}{"tier": "gold", "admin": true}, stub.claims)
}

func TestSetAdminRevoke(t *testing.T) {
	stub := &stubUserClient{record: &auth.UserRecord{
		UserInfo:     &auth.UserInfo{UID: "u1"},
		CustomClaims: map[string]interface{}{"admin": true},
	}}
	dir, err := NewFirebaseDirectory(stub)
	require.NoError(t, err)

	require.NoError(t, dir.SetAdmin(context.Background(), "u1", false))
	assert.Empty(t, stub.claims)

	assert.Error(t, dir.SetAdmin(context.Background(), "", true))
}

func TestSetAdminUnknownUser(t *testing.T) {
	dir, err := NewFirebaseDirectory(&stubUserClient{})
	require.NoError(t, err)
	assert.Error(t, dir.SetAdmin(context.Background(), "ghost", true))
}

func TestToUser(t *testing.T) {
	u := toUser(&auth.UserRecord{
		UserInfo:     &auth.UserInfo{UID: "u1", Email: "a@b.c", DisplayName: "Asha", PhotoURL: "https://x/p.png"},
		CustomClaims: map[string]interface{}{"admin": true},
		UserMetadata: &auth.UserMetadata{CreationTimestamp: 1709251200000},
	})
	assert.Equal(t, "u1", u.UID)
	assert.Equal(t, "Asha", u.DisplayName)
	assert.True(t, u.Admin)
	require.NotNil(t, u.CreationTime)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *u.CreationTime)
	assert.Nil(t, u.LastSignInTime)
}
