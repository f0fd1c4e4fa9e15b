package post

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/response"
)

// ImageField is the multipart field carrying the post image.
const ImageField = "image"

type Handler struct {
	service *Service
	stager  *upload.Stager
	log     logrus.FieldLogger
}

func NewHandler(service *Service, stager *upload.Stager, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, stager: stager, log: log}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	posts := public.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.GetByID)
	}

	stage := upload.Middleware(h.stager, ImageField, h.log)
	owned := protected.Group("/posts")
	{
		owned.POST("", stage, h.Create)
		owned.PUT("/:id", stage, h.Update)
		owned.DELETE("/:id", h.Delete)
	}
	protected.GET("/users/posts", h.ListMine)
}

func (h *Handler) List(c *gin.Context) {
	req := NewPageRequest(c.Query("page"), c.Query("limit"), c.Query("search"), h.service.PostsPerPage())

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"posts":      result.Posts,
		"totalPages": result.TotalPages,
		"totalPosts": result.TotalPosts,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": p})
}

func (h *Handler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	if _, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), in, upload.StagedFileFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Post created successfully")
}

func (h *Handler) Update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), c.GetString("user_id"), in, upload.StagedFileFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    p,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Post deleted successfully")
}

// ListMine returns the caller's own posts.
func (h *Handler) ListMine(c *gin.Context) {
	posts, err := h.service.ListByAuthor(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"posts": posts})
}

// bindInput reads the form (or JSON) fields; validation happens in the service.
func bindInput(c *gin.Context) (PostInput, bool) {
	var in PostInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return in, false
	}
	return in, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, ErrImageRequired):
		response.Error(c, http.StatusBadRequest, "IMAGE_REQUIRED", "Image is required")
	case errors.Is(err, ErrPostNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Post not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unauthorized action")
	case errors.Is(err, ErrAuthorNotFound):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Author not found")
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("post request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
