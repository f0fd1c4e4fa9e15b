package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	DefaultLocalDir     = "./uploads"
	DefaultLocalBaseURL = "/static/uploads"
)

type LocalConfig struct {
	BaseDir string
	BaseURL string
}

// Local keeps images on the server's disk and serves them under BaseURL.
// Meant for development and tests.
type Local struct {
	baseDir string
	baseURL string
}

func NewLocal(cfg LocalConfig) (*Local, error) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultLocalDir
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLocalBaseURL
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: %w", err)
	}
	return &Local{baseDir: cfg.BaseDir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

func (l *Local) BaseDir() string { return l.baseDir }
func (l *Local) BaseURL() string { return l.baseURL }

func (l *Local) Upload(ctx context.Context, localPath, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}
	defer src.Close()

	rel := path.Join(strings.Trim(folder, "/"), filepath.Base(localPath))
	absDir := filepath.Join(l.baseDir, filepath.FromSlash(path.Dir(rel)))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}

	absPath := filepath.Join(l.baseDir, filepath.FromSlash(rel))
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("local upload: %w", err)
	}
	return l.baseURL + "/" + rel, nil
}

func (l *Local) Delete(ctx context.Context, imageURL string) error {
	rel := strings.TrimPrefix(imageURL, l.baseURL+"/")
	if rel == imageURL || rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("local store: %q is not under %s", imageURL, l.baseURL)
	}

	err := os.Remove(filepath.Join(l.baseDir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("local delete: %w", err)
	}
	return nil
}

func (l *Local) DeleteFolder(ctx context.Context, folder string) error {
	folder = strings.Trim(folder, "/")
	if folder == "" || strings.Contains(folder, "..") {
		return fmt.Errorf("local store: refusing to delete folder %q", folder)
	}
	return os.RemoveAll(filepath.Join(l.baseDir, filepath.FromSlash(folder)))
}
