package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "None", cfg.CookieSameSite)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.EqualValues(t, 5*1024*1024, cfg.UploadMaxFileSize)
	assert.Equal(t, "./public/images", cfg.UploadStageDir)
	assert.Equal(t, "cloudinary", cfg.ImageStore)
	assert.Equal(t, "blog-app", cfg.ImageNamespace)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("POSTS_PER_PAGE", "5")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("COOKIE_SAMESITE", "Lax")
	t.Setenv("CLIENT_URL", "https://blog.example/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("IMAGE_STORE", "S3")
	t.Setenv("S3_BUCKET", "media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://blog.example", "https://a.example", "https://b.example"}, cfg.Origins())

	store := cfg.ImageStoreConfig()
	assert.Equal(t, "s3", store.Provider)
	assert.Equal(t, "media", store.S3.Bucket)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no store", map[string]string{}},
		{"bad ttl", map[string]string{"DATABASE_URL": "x", "JWT_ACCESS_TTL": "soon"}},
		{"zero ttl", map[string]string{"DATABASE_URL": "x", "JWT_REFRESH_TTL": "0s"}},
		{"same site none needs secure", map[string]string{"DATABASE_URL": "x", "COOKIE_SECURE": "false"}},
		{"bad same site", map[string]string{"DATABASE_URL": "x", "COOKIE_SAMESITE": "sometimes"}},
		{"bad page size", map[string]string{"DATABASE_URL": "x", "POSTS_PER_PAGE": "0"}},
		{"bad store", map[string]string{"DATABASE_URL": "x", "IMAGE_STORE": "ftp"}},
		{"prod default secret", map[string]string{"DATABASE_URL": "x", "APP_ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"MONGODB_URI", "DATABASE_URL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production": true,
		" Release ":  true,
		"prod":       true,
		"dev":        false,
		"staging":    false,
	} {
		assert.Equal(t, want, (&Config{AppEnv: env}).IsProduction(), env)
	}
}
