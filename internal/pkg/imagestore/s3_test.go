package imagestore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		s3BaseURL(S3Config{Bucket: "media", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/media",
		s3BaseURL(S3Config{Bucket: "media", Endpoint: "http://localhost:9000/"}))
}

func TestS3_KeyFromURL(t *testing.T) {
	store, err := NewS3(S3Config{
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	key, err := store.keyFromURL("http://localhost:9000/media/blog-app/images/1/post-a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "blog-app/images/1/post-a.jpg", key)

	_, err = store.keyFromURL("https://elsewhere.example/blog-app/images/1/post-a.jpg")
	assert.Error(t, err)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestBatchError(t *testing.T) {
	assert.NoError(t, batchError("blog-app/images/1/", nil))

	err := batchError("blog-app/images/1/", []*s3.Error{
		{Key: aws.String("blog-app/images/1/a.jpg"), Code: aws.String("AccessDenied"), Message: aws.String("Access Denied")},
		{Key: aws.String("blog-app/images/1/b.jpg"), Code: aws.String("AccessDenied"), Message: aws.String("Access Denied")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 object(s) not removed")
	assert.Contains(t, err.Error(), "blog-app/images/1/a.jpg")
}

// fakeS3 serves ListObjectsV2 with two keys and answers DeleteObjects with
// the configured per-key errors.
func fakeS3(t *testing.T, deleteResult string) *S3 {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch {
		case r.Method == http.MethodPost && r.URL.Query().Has("delete"):
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">%s</DeleteResult>`, deleteResult)
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>media</Name><Prefix>blog-app/images/1/</Prefix><KeyCount>2</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>
<Contents><Key>blog-app/images/1/a.jpg</Key><Size>3</Size></Contents>
<Contents><Key>blog-app/images/1/b.jpg</Key><Size>3</Size></Contents>
</ListBucketResult>`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	store, err := NewS3(S3Config{
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	return store
}

func TestS3_DeleteFolder(t *testing.T) {
	store := fakeS3(t, "")

	assert.NoError(t, store.DeleteFolder(context.Background(), "blog-app/images/1"))
}

func TestS3_DeleteFolder_PartialFailure(t *testing.T) {
	store := fakeS3(t, `<Error><Key>blog-app/images/1/a.jpg</Key><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)

	err := store.DeleteFolder(context.Background(), "blog-app/images/1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog-app/images/1/a.jpg")
	assert.Contains(t, err.Error(), "AccessDenied")
}
