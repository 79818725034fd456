package gcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

// fakeWriter behaves like a GCS object writer: Close commits unless the
// writer's context was cancelled first.
type fakeWriter struct {
	bytes.Buffer
	ctx       context.Context
	committed bool
	aborted   bool
	closeErr  error
}

func (w *fakeWriter) Close() error {
	if w.ctx.Err() != nil {
		w.aborted = true
		return w.ctx.Err()
	}
	w.committed = true
	return w.closeErr
}

// partialReader yields data once, then fails.
type partialReader struct {
	data string
	done bool
}

func (r *partialReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("connection reset")
	}
	r.done = true
	return copy(p, r.data), nil
}

func newFakeStore(w *fakeWriter, gotKey, gotType *string) *Store {
	return &Store{
		bucket: "issuemate-uploads",
		newWriter: func(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
			w.ctx = ctx
			*gotKey = key
			*gotType = contentType
			return w
		},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("should require a bucket", func(t *testing.T) {
		store, err := NewStore(context.Background(), config.StorageConfig{})
		assert.Nil(t, store)
		assert.ErrorIs(t, err, domainErrors.ErrStorageNotConfigured)
	})
}

func TestPut(t *testing.T) {
	t.Run("should write the object and return its public URL", func(t *testing.T) {
		w := &fakeWriter{}
		var key, contentType string
		store := newFakeStore(w, &key, &contentType)

		url, err := store.Put(context.Background(), "uploads/01H-shot.png", "image/png", strings.NewReader("png-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "https://storage.googleapis.com/issuemate-uploads/uploads/01H-shot.png", url)
		assert.Equal(t, "uploads/01H-shot.png", key)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, "png-bytes", w.String())
		assert.True(t, w.committed)
		assert.False(t, w.aborted)
	})

	t.Run("should abort the object when the read fails midway", func(t *testing.T) {
		w := &fakeWriter{}
		var key, contentType string
		store := newFakeStore(w, &key, &contentType)

		_, err := store.Put(context.Background(), "uploads/x", "text/plain", &partialReader{data: "partial"})

		assert.ErrorContains(t, err, "connection reset")
		assert.Equal(t, "partial", w.String())
		assert.True(t, w.aborted)
		assert.False(t, w.committed)
	})

	t.Run("should fail when the object cannot be finalized", func(t *testing.T) {
		w := &fakeWriter{closeErr: errors.New("403 forbidden")}
		var key, contentType string
		store := newFakeStore(w, &key, &contentType)

		_, err := store.Put(context.Background(), "uploads/x", "text/plain", strings.NewReader("x"))

		assert.ErrorContains(t, err, "403 forbidden")
	})
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/b/uploads/01H-my%20file.txt",
		PublicURL("b", "uploads/01H-my file.txt"))
}
