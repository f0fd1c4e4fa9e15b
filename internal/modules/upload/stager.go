// Package upload stages multipart images on local disk for the duration of
// one request. A staged file is owned by its request and always released.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultStageDir    = "./public/images"
	DefaultMaxFileSize = 5 * 1024 * 1024 // 5 MiB
)

// AllowedMimeTypes are the accepted image types. image/jpg is not a
// registered type but some clients send it.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

type StagedFile struct {
	Path         string
	OriginalName string
	MimeType     string
	Size         int64

	once sync.Once
}

// Release removes the staged file. Safe to call more than once and on nil.
func (f *StagedFile) Release() error {
	if f == nil {
		return nil
	}
	var err error
	f.once.Do(func() {
		if rmErr := os.Remove(f.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = rmErr
		}
	})
	return err
}

type Stager struct {
	dir     string
	maxSize int64
}

func NewStager(dir string, maxSize int64) *Stager {
	if dir == "" {
		dir = DefaultStageDir
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Stager{dir: dir, maxSize: maxSize}
}

func (s *Stager) Dir() string { return s.dir }

// Stage checks size and type of the uploaded file and copies it to the stage
// directory as post-<8 random chars><original name>.
func (s *Stager) Stage(fileHeader *multipart.FileHeader) (*StagedFile, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	mimeType := detectMimeType(buf[:n], fileHeader.Header.Get("Content-Type"))
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stage directory: %w", err)
	}

	name := "post-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + sanitizeName(fileHeader.Filename)
	absPath := filepath.Join(s.dir, name)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(file, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		_ = os.Remove(absPath)
		return nil, ErrFileTooLarge
	}

	return &StagedFile{
		Path:         absPath,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Size:         written,
	}, nil
}

// Sweep removes staged files older than maxAge, left behind by crashed
// processes. Returns the number of files removed.
func (s *Stager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "post-") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// detectMimeType trusts the sniffed type; the declared header only decides
// when sniffing is inconclusive.
func detectMimeType(head []byte, declared string) string {
	sniffed := strings.Split(http.DetectContentType(head), ";")[0]
	if sniffed != "application/octet-stream" {
		return sniffed
	}
	return strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	ext := filepath.Ext(name)
	base := strings.Map(safeRune, strings.TrimSuffix(name, ext))
	if len(ext) <= 1 {
		ext = ""
	} else {
		ext = "." + strings.ToLower(strings.Map(safeRune, ext[1:]))
	}
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" || base == "." {
		base = "image"
	}
	return base + ext
}

func safeRune(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
		return r
	}
	return '_'
}
