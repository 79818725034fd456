package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

type MockBlobStore struct {
	mock.Mock
	written string
}

// Put reads the whole body before recording the call, like a store that
// commits on success. A failed read aborts without committing anything.
func (m *MockBlobStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("error writing object %s: %w", key, err)
	}
	m.written = string(data)
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

var keyPattern = regexp.MustCompile(`^uploads/[0-9A-HJKMNP-TV-Z]{26}-(.+)$`)

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the file and build a markdown link", func(t *testing.T) {
		store := new(MockBlobStore)
		store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			m := keyPattern.FindStringSubmatch(key)
			return m != nil && m[1] == "screen-shot.png"
		}), "image/png").Return("https://cdn.example/uploads/k", nil)

		u := NewUploader(store, 0)
		res := u.Upload(ctx, "screen shot.png", "image/png", 5, strings.NewReader("12345"))

		require.True(t, res.Success)
		assert.Equal(t, "https://cdn.example/uploads/k", *res.FileURL)
		assert.Equal(t, "![screen shot.png](https://cdn.example/uploads/k)", res.Markdown)
		assert.Nil(t, res.ErrorMessage)
		assert.Equal(t, "12345", store.written)
		store.AssertExpectations(t)
	})

	t.Run("should reject oversized files before touching the store", func(t *testing.T) {
		store := new(MockBlobStore)
		u := NewUploader(store, 0)

		res := u.Upload(ctx, "big.zip", "application/zip", DefaultMaxBytes+1, strings.NewReader(""))

		assert.False(t, res.Success)
		assert.Nil(t, res.FileURL)
		require.NotNil(t, res.ErrorMessage)
		assert.ErrorIs(t, res.Err, domainErrors.ErrFileTooLarge)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should accept a file exactly at the limit", func(t *testing.T) {
		store := new(MockBlobStore)
		store.On("Put", ctx, mock.Anything, "text/plain").Return("https://cdn.example/f", nil)
		u := NewUploader(store, 4)

		res := u.Upload(ctx, "notes.txt", "text/plain", 4, strings.NewReader("abcd"))

		assert.True(t, res.Success)
	})

	t.Run("should fail the stream before commit when the body outgrows its declared size", func(t *testing.T) {
		store := new(MockBlobStore)
		u := NewUploader(store, 4)

		res := u.Upload(ctx, "notes.txt", "text/plain", 2, strings.NewReader("abcdefgh"))

		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, domainErrors.ErrFileTooLarge)
		assert.Empty(t, store.written)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should report store failures as upload errors", func(t *testing.T) {
		store := new(MockBlobStore)
		store.On("Put", ctx, mock.Anything, "application/octet-stream").Return("", errors.New("bucket not found"))
		u := NewUploader(store, 0)

		res := u.Upload(ctx, "report.pdf", "", 3, strings.NewReader("pdf"))

		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, domainErrors.ErrUpload)
		assert.Contains(t, *res.ErrorMessage, "bucket not found")
	})

	t.Run("should fail without a configured store", func(t *testing.T) {
		u := NewUploader(nil, 0)

		res := u.Upload(ctx, "a.txt", "text/plain", 1, strings.NewReader("a"))

		assert.ErrorIs(t, res.Err, domainErrors.ErrStorageNotConfigured)
	})
}

func TestKeysAreUnique(t *testing.T) {
	u := NewUploader(nil, 0)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		k := u.newKey("a.txt")
		assert.False(t, seen[k], k)
		seen[k] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"screen shot (1).png": "screen-shot-1-.png",
		"../../etc/passwd":    "passwd",
		`C:\Users\ana\x.txt`:  "x.txt",
		"..":                  "file",
		"":                    "file",
		"año.txt":             "a-o.txt",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, SanitizeFilename(in))
		})
	}
}

func TestMarkdownLink(t *testing.T) {
	assert.Equal(t, "![a.PNG](u)", MarkdownLink("a.PNG", "u"))
	assert.Equal(t, "![a.svg](u)", MarkdownLink("a.svg", "u"))
	assert.Equal(t, "[a.pdf](u)", MarkdownLink("a.pdf", "u"))
	assert.Equal(t, "[README](u)", MarkdownLink("README", "u"))
}
