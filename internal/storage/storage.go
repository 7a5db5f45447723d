// Package storage holds article cover images in a bucketed object store.
package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrObjectExists is returned by Upload when Upsert is false and the path is taken
	ErrObjectExists = errors.New("object already exists")
	// ErrObjectNotFound is returned when no object is stored at a path
	ErrObjectNotFound = errors.New("object not found")
)

// PublicPathPrefix is the URL path under which stored objects are publicly served
const PublicPathPrefix = "/storage/v1/object/public/"

// UploadOptions controls how an object is written
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// Object is a stored blob with its metadata
type Object struct {
	Path         string
	Data         []byte
	ContentType  string
	CacheControl string
}

// BlobStore is the bucket-scoped object store used for cover images
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error
	Get(ctx context.Context, path string) (*Object, error)
	PublicURL(path string) string
	Remove(ctx context.Context, paths []string) error
}

// PathFromPublicURL recovers the object path from a URL issued by PublicURL.
// The path is the last two segments of the URL path ("articles/<file>").
func PathFromPublicURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", err
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" || segments[len(segments)-2] == "" {
		return "", errors.New("public url has no object path")
	}
	return segments[len(segments)-2] + "/" + segments[len(segments)-1], nil
}

func publicURL(baseURL, bucket, path string) string {
	return strings.TrimRight(baseURL, "/") + PublicPathPrefix + bucket + "/" + strings.TrimLeft(path, "/")
}
