package imagestore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3 stores images as public-read objects. A custom endpoint switches to
// path-style addressing for S3-compatible services.
type S3 struct {
	client  *s3.S3
	bucket  string
	baseURL string
}

// maxDeleteBatch is the DeleteObjects limit.
const maxDeleteBatch = 1000

func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3: new session: %w", err)
	}

	return &S3{
		client:  s3.New(sess),
		bucket:  cfg.Bucket,
		baseURL: s3BaseURL(cfg),
	}, nil
}

func s3BaseURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3) Upload(ctx context.Context, localPath, folder string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	defer f.Close()

	key := path.Join(strings.Trim(folder, "/"), filepath.Base(localPath))
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3) Delete(ctx context.Context, imageURL string) error {
	key, err := s.keyFromURL(imageURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// DeleteFolder removes every object under folder. S3 has no folder object,
// so an emptied prefix simply stops existing.
func (s *S3) DeleteFolder(ctx context.Context, folder string) error {
	prefix := strings.Trim(folder, "/") + "/"

	var keys []*s3.ObjectIdentifier
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, &s3.ObjectIdentifier{Key: obj.Key})
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("s3 list %s: %w", prefix, err)
	}

	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(keys) {
			end = len(keys)
		}
		out, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{Objects: keys[start:end], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("s3 delete %s: %w", prefix, err)
		}
		if err := batchError(prefix, out.Errors); err != nil {
			return err
		}
	}
	return nil
}

// batchError reports the keys a quiet DeleteObjects call could not remove.
func batchError(prefix string, failed []*s3.Error) error {
	if len(failed) == 0 {
		return nil
	}
	first := failed[0]
	return fmt.Errorf("s3 delete %s: %d object(s) not removed, first %s: %s %s",
		prefix, len(failed), aws.StringValue(first.Key), aws.StringValue(first.Code), aws.StringValue(first.Message))
}

func (s *S3) keyFromURL(imageURL string) (string, error) {
	key := strings.TrimPrefix(imageURL, s.baseURL+"/")
	if key == imageURL || key == "" {
		return "", fmt.Errorf("s3: %q is not under %s", imageURL, s.baseURL)
	}
	return key, nil
}
