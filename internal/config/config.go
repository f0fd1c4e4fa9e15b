// Package config resolves runtime settings from the environment (and an
// optional .env file) once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"blogapp/internal/pkg/imagestore"
)

const (
	defaultJWTSecret  = "change-me-jwt-secret"
	defaultClientURL  = "http://localhost:3000"
	defaultNamespace  = "blog-app"
	defaultStageDir   = "./public/images"
	defaultMaxFile    = 5 * 1024 * 1024
	defaultPerPage    = 10
	defaultCookieSite = "None"
)

type Config struct {
	AppEnv string
	Port   string

	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	CookieSecure   bool
	CookieSameSite string

	ClientURL      string
	AllowedOrigins []string

	PostsPerPage int

	UploadStageDir    string
	UploadMaxFileSize int64

	ImageStore     string
	ImageNamespace string
	Cloudinary     imagestore.CloudinaryConfig
	S3             imagestore.S3Config
	LocalImageDir  string
	LocalImageURL  string

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGODB_DATABASE", "blog")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_SAMESITE", defaultCookieSite)
	v.SetDefault("CLIENT_URL", defaultClientURL)
	v.SetDefault("POSTS_PER_PAGE", defaultPerPage)
	v.SetDefault("UPLOAD_STAGE_DIR", defaultStageDir)
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", defaultMaxFile)
	v.SetDefault("IMAGE_STORE", imagestore.ProviderCloudinary)
	v.SetDefault("IMAGE_NAMESPACE", defaultNamespace)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("LOCAL_IMAGE_DIR", imagestore.DefaultLocalDir)
	v.SetDefault("LOCAL_IMAGE_URL", imagestore.DefaultLocalBaseURL)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:            strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:              strings.TrimSpace(v.GetString("PORT")),
		MongoURI:          strings.TrimSpace(v.GetString("MONGODB_URI")),
		MongoDatabase:     strings.TrimSpace(v.GetString("MONGODB_DATABASE")),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:         strings.TrimSpace(v.GetString("JWT_SECRET")),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		CookieSameSite:    strings.TrimSpace(v.GetString("COOKIE_SAMESITE")),
		ClientURL:         strings.TrimRight(strings.TrimSpace(v.GetString("CLIENT_URL")), "/"),
		AllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PostsPerPage:      v.GetInt("POSTS_PER_PAGE"),
		UploadStageDir:    strings.TrimSpace(v.GetString("UPLOAD_STAGE_DIR")),
		UploadMaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
		ImageStore:        strings.ToLower(strings.TrimSpace(v.GetString("IMAGE_STORE"))),
		ImageNamespace:    strings.Trim(strings.TrimSpace(v.GetString("IMAGE_NAMESPACE")), "/"),
		Cloudinary: imagestore.CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		S3: imagestore.S3Config{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
		LocalImageDir: v.GetString("LOCAL_IMAGE_DIR"),
		LocalImageURL: v.GetString("LOCAL_IMAGE_URL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}

	var err error
	if cfg.JWTAccessTTL, err = parseDuration(v, "JWT_ACCESS_TTL"); err != nil {
		return nil, err
	}
	if cfg.JWTRefreshTTL, err = parseDuration(v, "JWT_REFRESH_TTL"); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ImageStoreConfig selects and configures the remote image backend.
func (c *Config) ImageStoreConfig() imagestore.Config {
	return imagestore.Config{
		Provider:   c.ImageStore,
		Cloudinary: c.Cloudinary,
		S3:         c.S3,
		Local:      imagestore.LocalConfig{BaseDir: c.LocalImageDir, BaseURL: c.LocalImageURL},
	}
}

// Origins is the CORS allow-list: the client URL plus any extras.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	return append(origins, c.AllowedOrigins...)
}

func (c *Config) IsProduction() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.MongoURI == "" && cfg.DatabaseURL == "" {
		return fmt.Errorf("MONGODB_URI or DATABASE_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.JWTRefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.PostsPerPage < 1 {
		return fmt.Errorf("POSTS_PER_PAGE must be >= 1")
	}
	if cfg.UploadMaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be > 0")
	}
	if cfg.ImageNamespace == "" {
		return fmt.Errorf("IMAGE_NAMESPACE must not be empty")
	}

	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	switch cfg.ImageStore {
	case imagestore.ProviderCloudinary, imagestore.ProviderS3, imagestore.ProviderLocal:
	default:
		return fmt.Errorf("IMAGE_STORE must be one of: cloudinary, s3, local")
	}

	if cfg.IsProduction() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
		if cfg.ImageStore == imagestore.ProviderLocal {
			return fmt.Errorf("in prod/release IMAGE_STORE=local is not allowed")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
