// Package filepolicy decides which files may be uploaded before any
// network or disk I/O happens. The server and the uploader client share
// this exact implementation; the server's check is authoritative.
package filepolicy

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrTooManyFiles    = errors.New("too many files in one batch")
	ErrEmptyFile       = errors.New("file is empty")
)

const (
	DefaultMaxFileSize   = 10 * 1024 * 1024
	DefaultMaxBatchFiles = 10
)

// defaultAllowedTypes lists every MIME type Rehearse accepts: images,
// PDF, Office documents, common text formats and archives.
var defaultAllowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,

	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,

	"text/plain":       true,
	"text/markdown":    true,
	"text/csv":         true,
	"application/json": true,
	"text/javascript":  true,
	"text/css":         true,
	"text/html":        true,

	"application/zip":              true,
	"application/x-rar-compressed": true,
}

// Policy is a pure value: all checks are synchronous and side-effect
// free.
type Policy struct {
	MaxFileSize   int64
	MaxBatchFiles int
	AllowedTypes  map[string]bool
}

func Default() Policy {
	return Policy{
		MaxFileSize:   DefaultMaxFileSize,
		MaxBatchFiles: DefaultMaxBatchFiles,
		AllowedTypes:  defaultAllowedTypes,
	}
}

// New returns the default policy with overridden limits. Zero values
// keep the defaults.
func New(maxFileSize int64, maxBatchFiles int) Policy {
	p := Default()
	if maxFileSize > 0 {
		p.MaxFileSize = maxFileSize
	}
	if maxBatchFiles > 0 {
		p.MaxBatchFiles = maxBatchFiles
	}
	return p
}

// CheckFile validates a single candidate by its declared size and MIME
// type. The returned error wraps a sentinel and carries the configured
// limit for user-facing messaging.
func (p Policy) CheckFile(size int64, mimeType string) error {
	if size == 0 {
		return ErrEmptyFile
	}
	if size > p.MaxFileSize {
		return fmt.Errorf("%w: maximum size is %s", ErrFileTooLarge, FormatSize(p.MaxFileSize))
	}
	if !p.AllowedTypes[mimeType] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
	}
	return nil
}

// CheckBatch is the fail-fast, all-or-nothing batch gate, applied
// before any per-file checks.
func (p Policy) CheckBatch(count int) error {
	if count > p.MaxBatchFiles {
		return fmt.Errorf("%w: at most %d files per batch", ErrTooManyFiles, p.MaxBatchFiles)
	}
	return nil
}

// FormatSize renders a byte count for user-facing messages, e.g.
// "10 MB".
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d %s", int64(v), sizes[i])
	}
	return fmt.Sprintf("%g %s", v, sizes[i])
}
