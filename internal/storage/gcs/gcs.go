// Package gcs is the Google Cloud Storage blob store.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	istorage "github.com/thomas-vilte/issuemate/internal/storage"
	"google.golang.org/api/option"
)

const publicBaseURL = "https://storage.googleapis.com"

var _ istorage.BlobStore = (*Store)(nil)

type writerFunc func(ctx context.Context, bucket, key, contentType string) io.WriteCloser

type Store struct {
	bucket    string
	newWriter writerFunc
	close     func() error
}

// NewStore connects to GCS with the configured credentials file, falling back
// to application default credentials.
func NewStore(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, domainErrors.ErrStorageNotConfigured
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, domainErrors.ErrStorageNotConfigured.WithError(err)
	}

	return &Store{
		bucket: cfg.Bucket,
		newWriter: func(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
			w := client.Bucket(bucket).Object(key).NewWriter(ctx)
			w.ContentType = contentType
			return w
		},
		close: client.Close,
	}, nil
}

// Put streams r into the bucket. The object is committed only when the whole
// reader was copied; on a read error the upload context is cancelled before
// Close, which aborts the write and leaves nothing in the bucket.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.newWriter(ctx, s.bucket, key, contentType)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("error writing object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizing object %s: %w", key, err)
	}
	return PublicURL(s.bucket, key), nil
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// PublicURL is where a public-read object is served from.
func PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, strings.Join(segments, "/"))
}
