package auth

import (
	"context"

	"blogapp/internal/domain"
	"blogapp/internal/pkg/jwt"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	ListWithRefreshToken(ctx context.Context) ([]*domain.User, error)
}

type TokenService interface {
	GenerateToken(userID string, role string) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	ValidateRefreshToken(token string) (*jwt.Claims, error)
}
