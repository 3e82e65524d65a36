package service

import (
	"go-finance-api/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		LedgerTTL:     7 * 24 * time.Hour,
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsSharedSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err := NewTokenService(cfg)
	assert.Error(t, err)

	cfg.AccessSecret = ""
	_, err = NewTokenService(cfg)
	assert.Error(t, err)
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccessToken(1, "user@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_KeySeparation(t *testing.T) {
	svc := newTestTokenService(t)

	access, err := svc.IssueAccessToken(1, "user@example.com")
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(1, "user@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc := newTestTokenService(t)
	fixed := time.Now()
	svc.now = func() time.Time { return fixed }

	a, err := svc.IssueRefreshToken(1, "user@example.com")
	require.NoError(t, err)
	b, err := svc.IssueRefreshToken(1, "user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenService_ExpiredVsInvalid(t *testing.T) {
	svc := newTestTokenService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := svc.IssueAccessToken(1, "user@example.com")
	require.NoError(t, err)
	svc.now = time.Now

	_, err = svc.VerifyAccessToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	tampered := expired[:len(expired)-2] + "xx"
	_, err = svc.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t)

	claims := jwt.MapClaims{"userId": 1, "email": "user@example.com", "exp": time.Now().Add(time.Hour).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
