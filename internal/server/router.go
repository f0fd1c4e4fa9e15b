// Package server assembles the HTTP router from the feature modules.
package server

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/middleware"
	"blogapp/internal/modules/auth"
	"blogapp/internal/modules/post"
	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/imagestore"
	"blogapp/internal/pkg/jwt"
	"blogapp/internal/pkg/response"
	"blogapp/internal/repository"
)

const WelcomeMessage = "Welcome to the Blog App API"

// Deps is everything the router needs; cmd/api builds it from config.
type Deps struct {
	Store   *repository.Store
	Images  imagestore.Store
	Stager  *upload.Stager
	JWT     *jwt.Service
	Cookies auth.CookieConfig
	Posts   post.Config
	Origins []string
	Log     logrus.FieldLogger
}

// NewRouter wires services and handlers under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Log),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.Origins),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, WelcomeMessage)
	})
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// images of the local store are served by the API itself
	if local, ok := d.Images.(*imagestore.Local); ok {
		if prefix := localURLPath(local.BaseURL()); prefix != "" {
			r.Static(prefix, local.BaseDir())
		}
	}

	authService := auth.NewService(d.Store.Users, d.JWT)
	authHandler := auth.NewHandler(authService, d.Cookies, d.Log)

	postService := post.NewService(d.Store.Posts, d.Store.Users, d.Images, d.Posts, d.Log)
	postHandler := post.NewHandler(postService, d.Stager, d.Log)

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.JWT))

	authHandler.RegisterRoutes(v1, protected)
	postHandler.RegisterRoutes(v1, protected)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return r
}

// localURLPath returns the path part of a local store base URL, which may be
// absolute ("http://host/static") or just a path ("/static").
func localURLPath(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	return u.Path
}
