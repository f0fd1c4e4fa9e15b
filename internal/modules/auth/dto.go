package auth

import "blogapp/internal/domain"

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,notblank"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Session is the token pair handed out on login.
type Session struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	User *domain.User
	Session
}
