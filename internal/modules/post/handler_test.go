package post

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogapp/internal/domain"
	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/logger"
	"blogapp/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func setupRouter(t *testing.T, posts *mockPostRepo, users *mockUserRepo, images *fakeImages) (*gin.Engine, string) {
	t.Helper()
	stageDir := t.TempDir()
	svc := newTestService(posts, users, images)
	h := NewHandler(svc, upload.NewStager(stageDir, 0), logger.Discard())

	r := gin.New()
	public := r.Group("/api/v1")
	protected := r.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
		c.Next()
	})
	h.RegisterRoutes(public, protected)
	return r, stageDir
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile(ImageField, "cover.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func assertStageEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandler_Create(t *testing.T) {
	posts, users, images := new(mockPostRepo), new(mockUserRepo), &fakeImages{}
	users.On("GetByID", mock.Anything, authorID).Return(author(), nil)
	posts.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("AddPost", mock.Anything, authorID, mock.Anything).Return(nil)
	r, stageDir := setupRouter(t, posts, users, images)

	req := multipartRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{
		"title":   "Getting Started",
		"content": "A body that is long enough to pass.",
	}, pngHeader)
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Post created successfully", decode(t, w)["message"])
	assert.Len(t, images.uploads, 1)
	assertStageEmpty(t, stageDir)
}

func TestHandler_Create_NoImage(t *testing.T) {
	posts, users := new(mockPostRepo), new(mockUserRepo)
	r, _ := setupRouter(t, posts, users, &fakeImages{})

	req := multipartRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{
		"title":   "Getting Started",
		"content": "A body that is long enough to pass.",
	}, nil)
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image is required", decode(t, w)["error"])
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_Create_ValidationErrors(t *testing.T) {
	r, stageDir := setupRouter(t, new(mockPostRepo), new(mockUserRepo), &fakeImages{})

	req := multipartRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{
		"title":   "Hey",
		"content": "too short",
	}, pngHeader)
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["errors"])
	assertStageEmpty(t, stageDir)
}

func TestHandler_Create_RejectsNonImage(t *testing.T) {
	r, stageDir := setupRouter(t, new(mockPostRepo), new(mockUserRepo), &fakeImages{})

	req := multipartRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{
		"title":   "Getting Started",
		"content": "A body that is long enough to pass.",
	}, []byte("just some plain text, not an image at all"))
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_TYPE", decode(t, w)["code"])
	assertStageEmpty(t, stageDir)
}

func TestHandler_List(t *testing.T) {
	posts, users := new(mockPostRepo), new(mockUserRepo)
	posts.On("List", mock.Anything, domain.PostFilter{Skip: 0, Limit: 10}).
		Return([]*domain.Post{{ID: postID, AuthorID: authorID, Title: "Hello world"}}, nil)
	posts.On("Count", mock.Anything).Return(int64(1), nil)
	users.On("GetByIDs", mock.Anything, []string{authorID}).Return([]*domain.User{author()}, nil)
	r, _ := setupRouter(t, posts, users, &fakeImages{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts?page=abc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["totalPosts"])
	assert.Equal(t, float64(1), body["totalPages"])
	require.Len(t, body["posts"], 1)
}

func TestHandler_GetByID_NotFound(t *testing.T) {
	posts := new(mockPostRepo)
	posts.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
	r, _ := setupRouter(t, posts, new(mockUserRepo), &fakeImages{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", decode(t, w)["error"])
}

func TestHandler_Update_Forbidden(t *testing.T) {
	posts := new(mockPostRepo)
	posts.On("GetByID", mock.Anything, postID).Return(&domain.Post{ID: postID, AuthorID: authorID}, nil)
	r, _ := setupRouter(t, posts, new(mockUserRepo), &fakeImages{})

	req := multipartRequest(t, http.MethodPut, "/api/v1/posts/"+postID, map[string]string{"title": "Taken over"}, nil)
	req.Header.Set("X-Test-User", strangerID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandler_Delete(t *testing.T) {
	posts, users := new(mockPostRepo), new(mockUserRepo)
	posts.On("GetByID", mock.Anything, postID).Return(&domain.Post{ID: postID, AuthorID: authorID}, nil)
	posts.On("Delete", mock.Anything, postID).Return(nil)
	users.On("RemovePost", mock.Anything, authorID, postID).Return(nil)
	r, _ := setupRouter(t, posts, users, &fakeImages{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/posts/"+postID, nil)
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", decode(t, w)["message"])
}

func TestHandler_ListMine(t *testing.T) {
	posts, users := new(mockPostRepo), new(mockUserRepo)
	posts.On("ListByAuthor", mock.Anything, authorID).Return([]*domain.Post{{ID: postID, AuthorID: authorID}}, nil)
	users.On("GetByIDs", mock.Anything, []string{authorID}).Return([]*domain.User{author()}, nil)
	r, _ := setupRouter(t, posts, users, &fakeImages{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/posts", nil)
	req.Header.Set("X-Test-User", authorID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"], 1)
}
