// Package storage holds exported quote documents behind a provider
// abstraction: the local filesystem in development, Cloudflare R2 in
// production. Rendering a quote to PDF happens elsewhere; this package only
// stores and serves the resulting bytes.
package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the document storage contract. All methods take a context for
// timeout and cancellation.
type Store interface {
	// Put stores data under key. With Overwrite off an existing key is an
	// ErrKeyExists failure.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get returns the object's bytes and metadata. The caller closes the
	// reader. Missing keys return ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns an access URL for the object: permanent where the
	// provider has a public base, otherwise presigned for the given
	// duration.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PutOptions configures a Put.
type PutOptions struct {
	// ContentType is the MIME type; auto-detected from the key's
	// extension when empty.
	ContentType string

	// MaxSize caps the object size in bytes. Zero means unlimited.
	MaxSize int64

	// Overwrite allows replacing an existing object.
	Overwrite bool
}

// ObjectInfo is the metadata returned alongside a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// LocalConfig configures filesystem storage.
type LocalConfig struct {
	BasePath string // root directory, e.g. ./storage
	BaseURL  string // public URL prefix, e.g. http://localhost:8080/files
}

// R2Config configures Cloudflare R2 (S3-compatible) storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// PublicURL is the bucket's custom-domain URL; when empty every
	// access goes through a presigned URL.
	PublicURL string
	// Region is whatever the SDK requires; R2 accepts "auto".
	Region string
}

// Provider names, as used in configuration.
const (
	ProviderLocal = "local"
	ProviderR2    = "r2"
)

// ExportKey generates the storage key for a quote's exported document.
// Format: quotes/{quoteID}/exports/{uuid}.{ext}
func ExportKey(quoteID uuid.UUID, format string) string {
	return "quotes/" + quoteID.String() + "/exports/" + uuid.NewString() + "." + format
}

// detectContentType resolves a MIME type from the explicit value, then the
// key's extension, then a generic binary fallback.
func detectContentType(provided, key string) string {
	if provided != "" {
		return provided
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(key))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// IsPDF reports whether a content type is a PDF document, ignoring any
// parameters after the media type.
func IsPDF(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(base)) == "application/pdf"
}
