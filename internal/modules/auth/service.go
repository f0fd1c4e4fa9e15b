package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogapp/internal/domain"
	"blogapp/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	users  UserRepositoryInterface
	tokens TokenService
}

func NewService(users UserRepositoryInterface, tokens TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		Posts:        []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	user.RefreshToken = nil
	return &LoginResult{User: user, Session: *session}, nil
}

// IssueSession signs a fresh token pair and persists the refresh token,
// replacing (and so invalidating) any previous one.
func (s *Service) IssueSession(ctx context.Context, user *domain.User) (*Session, error) {
	accessToken, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return &Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RevokeSession clears the persisted refresh token. Revoking an already
// revoked session succeeds.
func (s *Service) RevokeSession(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.RevokeSession(ctx, userID)
}

// PruneStaleSessions clears persisted refresh tokens that no longer verify
// (expired, or signed with a rotated secret). Returns how many were cleared.
func (s *Service) PruneStaleSessions(ctx context.Context) (int, error) {
	users, err := s.users.ListWithRefreshToken(ctx)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, u := range users {
		if u.RefreshToken == nil {
			continue
		}
		claims, err := s.tokens.ValidateRefreshToken(*u.RefreshToken)
		if err == nil && claims.UserID == u.ID {
			continue
		}
		if err := s.users.SetRefreshToken(ctx, u.ID, nil); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
