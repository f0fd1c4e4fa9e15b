package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AccessTokenRoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour, 7*24*time.Hour)

	token, err := svc.GenerateToken("64b7f0c2a1b2c3d4e5f60718", "user")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.Equal(t, time.Hour, svc.AccessTTL())
}

func TestService_RefreshTokenHasNoRole(t *testing.T) {
	svc := New("test-secret", time.Hour, 7*24*time.Hour)

	token, err := svc.GenerateRefreshToken("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestService_TokensAreUnique(t *testing.T) {
	svc := New("test-secret", time.Hour, time.Hour)

	a, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestService_RejectsWrongType(t *testing.T) {
	svc := New("test-secret", time.Hour, time.Hour)

	refresh, _ := svc.GenerateRefreshToken("u1")
	_, err := svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongType)

	access, _ := svc.GenerateToken("u1", "user")
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestService_RejectsExpired(t *testing.T) {
	svc := New("test-secret", -time.Minute, time.Hour)

	token, err := svc.GenerateToken("u1", "user")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsForeignSecret(t *testing.T) {
	issuer := New("secret-a", time.Hour, time.Hour)
	verifier := New("secret-b", time.Hour, time.Hour)

	token, _ := issuer.GenerateToken("u1", "user")
	_, err := verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsOtherAlgorithms(t *testing.T) {
	svc := New("test-secret", time.Hour, time.Hour)

	claims := Claims{
		UserID: "u1",
		Type:   TypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
