package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/pkg/response"
	"blogapp/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookies CookieConfig
	log     logrus.FieldLogger
}

func NewHandler(service *Service, cookies CookieConfig, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, cookies: cookies, log: log}
}

// RegisterRoutes mounts register/login on public and logout on protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	protected.GET("/auth/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists")
			return
		}
		h.log.WithError(err).Error("register")
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "User Register Successfully",
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		h.log.WithError(err).Error("login")
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	h.cookies.set(c, AccessTokenCookie, result.AccessToken)
	h.cookies.set(c, RefreshTokenCookie, result.RefreshToken)

	response.Success(c, http.StatusOK, gin.H{
		"message":      "User Logged In Successfully",
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         result.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		h.log.WithError(err).Error("logout")
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
		return
	}

	h.cookies.clear(c, AccessTokenCookie)
	h.cookies.clear(c, RefreshTokenCookie)
	response.Message(c, http.StatusOK, "User logged out successfully")
}

// bindJSON binds the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields, ok := validator.FromError(err); ok {
			response.ValidationError(c, http.StatusBadRequest, fields)
			return false
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	return true
}
