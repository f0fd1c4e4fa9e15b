package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls the auth cookies set on login.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// ParseSameSite maps Lax/Strict/None onto http.SameSite, defaulting to Lax.
func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

func (cc CookieConfig) set(c *gin.Context, name, value string) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(name, value, int(cc.MaxAge.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) clear(c *gin.Context, name string) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(name, "", -1, "/", "", cc.Secure, true)
}
