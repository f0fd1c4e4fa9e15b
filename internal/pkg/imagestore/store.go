// Package imagestore pushes post images to remote object storage.
//
// Every image of a post lives under one folder, {namespace}/images/{postID},
// so deleting a post can remove all of its images with one prefix delete.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
	ProviderLocal      = "local"
)

var ErrUnknownProvider = errors.New("unknown image store provider")

// Store is the remote side of the image transaction.
type Store interface {
	// Upload pushes the local file into folder and returns its public URL.
	Upload(ctx context.Context, localPath, folder string) (string, error)
	// Delete removes the single image behind url.
	Delete(ctx context.Context, url string) error
	// DeleteFolder removes every image under folder and then the folder.
	DeleteFolder(ctx context.Context, folder string) error
}

type Config struct {
	Provider   string
	Cloudinary CloudinaryConfig
	S3         S3Config
	Local      LocalConfig
}

// Folder returns the namespace folder holding all images of one post.
func Folder(namespace, postID string) string {
	return path.Join(strings.Trim(namespace, "/"), "images", postID)
}

func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderCloudinary, "":
		return NewCloudinary(cfg.Cloudinary)
	case ProviderS3:
		return NewS3(cfg.S3)
	case ProviderLocal:
		return NewLocal(cfg.Local)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
