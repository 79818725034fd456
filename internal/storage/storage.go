// Package storage uploads issue attachments to a blob store and returns
// their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/regex"
)

// DefaultMaxBytes is the upload size limit when none is configured.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

const keyPrefix = "uploads/"

// BlobStore writes one object and returns the URL it is publicly served at.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (publicURL string, err error)
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
}

type Uploader struct {
	store    BlobStore
	maxBytes int64

	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func NewUploader(store BlobStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{
		store:    store,
		maxBytes: maxBytes,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:      time.Now,
	}
}

// MaxBytes is the enforced size limit.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload stores one file. Oversized files are rejected before the store is
// touched. Failures come back as a typed result, never as an error.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) *models.UploadResult {
	log := logger.FromContext(ctx).With("filename", filename, "size", size)

	if u.store == nil {
		return uploadFailure(domainErrors.ErrStorageNotConfigured)
	}

	if size > u.maxBytes {
		log.Warn("upload rejected, file too large", "limit", u.maxBytes)
		return uploadFailure(domainErrors.ErrFileTooLarge.WithContext("limit", u.maxBytes))
	}

	key := u.newKey(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// The declared size may lie. Going past the limit fails the read, so the
	// store aborts the object instead of committing it.
	limited := &limitedReader{r: r, max: u.maxBytes}

	url, err := u.store.Put(ctx, key, contentType, limited)
	if err != nil {
		if errors.Is(err, domainErrors.ErrFileTooLarge) {
			log.Warn("upload exceeded limit while streaming", "limit", u.maxBytes)
			return uploadFailure(domainErrors.ErrFileTooLarge.WithContext("limit", u.maxBytes))
		}
		log.Error("blob store write failed", "error", err, "key", key)
		return uploadFailure(domainErrors.ErrUpload.WithError(err))
	}

	log.Info("file uploaded", "key", key, "bytes", limited.n)

	return &models.UploadResult{
		Success:  true,
		FileURL:  &url,
		Markdown: MarkdownLink(filename, url),
	}
}

func (u *Uploader) newKey(filename string) string {
	u.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(u.now()), u.entropy)
	u.mu.Unlock()
	return fmt.Sprintf("%s%s-%s", keyPrefix, id.String(), SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with a dash.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = regex.UnsafeFilenameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "file"
	}
	return name
}

// MarkdownLink renders an image embed for image files and a plain link
// otherwise.
func MarkdownLink(filename, url string) string {
	if imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Sprintf("![%s](%s)", filename, url)
	}
	return fmt.Sprintf("[%s](%s)", filename, url)
}

func uploadFailure(err *domainErrors.AppError) *models.UploadResult {
	msg := err.Error()
	return &models.UploadResult{
		Success:      false,
		ErrorMessage: &msg,
		Err:          err,
	}
}

// limitedReader passes through at most max bytes and fails with
// ErrFileTooLarge as soon as the source holds more.
type limitedReader struct {
	r   io.Reader
	max int64
	n   int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n > l.max {
		return 0, domainErrors.ErrFileTooLarge
	}
	// One byte past the limit is enough to detect an oversized source.
	if room := l.max + 1 - l.n; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return 0, domainErrors.ErrFileTooLarge
	}
	return n, err
}
