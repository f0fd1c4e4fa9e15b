package imagestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Cloudinary stores images as Cloudinary image assets. The folder becomes
// the asset's public id prefix.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, localPath, folder string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         folder,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, imageURL string) error {
	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}

func (c *Cloudinary) DeleteFolder(ctx context.Context, folder string) error {
	folder = strings.Trim(folder, "/")

	res, err := c.cld.Admin.DeleteAssetsByPrefix(ctx, admin.DeleteAssetsByPrefixParams{
		AssetType: api.Image,
		Prefix:    api.CldAPIArray{folder + "/"},
	})
	if err != nil {
		return fmt.Errorf("cloudinary delete prefix %s: %w", folder, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary delete prefix %s: %s", folder, res.Error.Message)
	}

	fres, err := c.cld.Admin.DeleteFolder(ctx, admin.DeleteFolderParams{Folder: folder})
	if err != nil {
		return fmt.Errorf("cloudinary delete folder %s: %w", folder, err)
	}
	if fres.Error.Message != "" {
		return fmt.Errorf("cloudinary delete folder %s: %s", folder, fres.Error.Message)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL extracts the public id (folder path plus file name without
// extension) from a Cloudinary delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v17/blog-app/images/<id>/post-x.jpg
func PublicIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("cloudinary: parse url: %w", err)
	}

	const marker = "/upload/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("cloudinary: %q is not a delivery url", raw)
	}

	segments := strings.Split(strings.Trim(u.Path[idx+len(marker):], "/"), "/")
	if len(segments) > 1 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}

	id := strings.Join(segments, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", fmt.Errorf("cloudinary: %q has no public id", raw)
	}
	return id, nil
}
