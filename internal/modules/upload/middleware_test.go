package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapp/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("title", "hello"))
	if field != "" {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func stageDirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestMiddleware_StagesAndReleases(t *testing.T) {
	dir := t.TempDir()
	router := gin.New()

	var seen string
	router.POST("/upload", Middleware(NewStager(dir, 0), "image", logger.Discard()), func(c *gin.Context) {
		f := StagedFileFrom(c)
		require.NotNil(t, f)
		assert.FileExists(t, f.Path)
		seen = f.Path
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "image", "cat.png", pngHeader))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, seen)
	assert.Zero(t, stageDirEntries(t, dir))
}

func TestMiddleware_ReleasesWhenHandlerFails(t *testing.T) {
	dir := t.TempDir()
	router := gin.New()
	router.POST("/upload", Middleware(NewStager(dir, 0), "image", logger.Discard()), func(c *gin.Context) {
		_ = c.Error(errors.New("remote upload failed"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "image", "cat.png", pngHeader))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, stageDirEntries(t, dir))
}

func TestMiddleware_ReleasesOnPanic(t *testing.T) {
	dir := t.TempDir()
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.POST("/upload", Middleware(NewStager(dir, 0), "image", logger.Discard()), func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "image", "cat.png", pngHeader))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, stageDirEntries(t, dir))
}

func TestMiddleware_NoFile(t *testing.T) {
	router := gin.New()
	router.POST("/upload", Middleware(NewStager(t.TempDir(), 0), "image", logger.Discard()), func(c *gin.Context) {
		assert.Nil(t, StagedFileFrom(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "", "", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_RejectsBadType(t *testing.T) {
	dir := t.TempDir()
	router := gin.New()
	router.POST("/upload", Middleware(NewStager(dir, 0), "image", logger.Discard()), func(c *gin.Context) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "image", "doc.pdf", []byte("%PDF-1.4 not an image")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
	assert.Zero(t, stageDirEntries(t, dir))
}
