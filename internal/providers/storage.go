package providers

import (
	"context"

	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/storage"
	"github.com/thomas-vilte/issuemate/internal/storage/gcs"
)

// NewUploader wires the blob store. Without a bucket the uploader is still
// returned and answers every upload with a storage-not-configured result.
// The returned func releases the store client.
func NewUploader(ctx context.Context, cfg *config.Config) (*storage.Uploader, func() error, error) {
	noop := func() error { return nil }

	if cfg.Storage.Bucket == "" {
		logger.FromContext(ctx).Warn("storage bucket not configured, uploads disabled")
		return storage.NewUploader(nil, cfg.Storage.MaxUploadBytes), noop, nil
	}

	store, err := gcs.NewStore(ctx, cfg.Storage)
	if err != nil {
		return nil, noop, err
	}
	return storage.NewUploader(store, cfg.Storage.MaxUploadBytes), store.Close, nil
}
