package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("unexpected token type")
)

// Service signs and verifies HS256 tokens with one shared secret.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	Type   string `json:"typ"`
	jwtlib.RegisteredClaims
}

func New(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL is also the lifetime of the auth cookies.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// GenerateToken issues an access token carrying the user id and role.
func (s *Service) GenerateToken(userID string, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, Type: TypeAccess}, s.accessTTL)
}

// GenerateRefreshToken issues a refresh token carrying only the user id.
func (s *Service) GenerateRefreshToken(userID string) (string, error) {
	return s.sign(Claims{UserID: userID, Type: TypeRefresh}, s.refreshTTL)
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateAccessToken(tokenStr string) (*Claims, error) {
	return s.validate(tokenStr, TypeAccess)
}

func (s *Service) ValidateRefreshToken(tokenStr string) (*Claims, error) {
	return s.validate(tokenStr, TypeRefresh)
}

func (s *Service) validate(tokenStr, wantType string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongType
	}

	return claims, nil
}
