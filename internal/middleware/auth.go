package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogapp/internal/pkg/jwt"
	"blogapp/internal/pkg/response"
)

const AccessTokenCookie = "accessToken"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// JWTAuth authenticates the request from "Authorization: Bearer <token>",
// falling back to the access token cookie. On success it sets user_id and
// role in the context. It never reads the user store.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}
		if token == "" {
			token, _ = c.Cookie(AccessTokenCookie)
		}
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// bearerToken returns the header token, "" when the header is absent, and
// ok=false when the header is present but malformed.
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
