package vision

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// ImageLister returns the reference image URIs under a bucket prefix. The
// production implementation talks to GCS; tests supply fakes.
type ImageLister interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// GCSImageLister lists gs:// URIs via the Cloud Storage API.
type GCSImageLister struct {
	client *storage.Client
}

func NewGCSImageLister(client *storage.Client) *GCSImageLister {
	return &GCSImageLister{client: client}
}

// List returns the sorted image URIs under prefix. An empty result is an
// error: the few-shot prompt is meaningless without reference images.
func (l *GCSImageLister) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := l.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var uris []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
		}
		if attrs.Name == prefix || !isImage(attrs.Name) {
			continue
		}
		uris = append(uris, fmt.Sprintf("gs://%s/%s", bucket, attrs.Name))
	}

	if len(uris) == 0 {
		return nil, fmt.Errorf("no few-shot images found in gs://%s/%s", bucket, prefix)
	}

	sort.Strings(uris)
	return uris, nil
}

func isImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
