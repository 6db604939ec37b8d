package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded byte streams under a root directory, one
// subdirectory per skill folder. It knows nothing about metadata rows.
type Storage struct {
	root string
}

func NewStorage(root string) *Storage {
	return &Storage{root: root}
}

func (s *Storage) Root() string { return s.root }

// Save writes the stream to <root>/<folderID>/<storageName>, then reads
// the file back and computes its SHA-256. A failed write removes the
// partial object; a failed digest leaves the written bytes in place as
// reconcilable garbage, since the caller must not create a metadata row
// for it either way.
func (s *Storage) Save(folderID, originalName string, r io.Reader) (storageName, hash string, size int64, err error) {
	dir := filepath.Join(s.root, folderID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", 0, fmt.Errorf("%w: create folder directory: %v", ErrStorageWrite, err)
	}

	storageName = generateStorageName(originalName)
	path := filepath.Join(dir, storageName)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	size, err = io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", "", 0, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	hash, err = s.digest(path)
	if err != nil {
		return storageName, "", size, fmt.Errorf("%w: %v", ErrDigestFailed, err)
	}

	return storageName, hash, size, nil
}

func (s *Storage) digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Path returns the absolute location of a stored object.
func (s *Storage) Path(folderID, storageName string) string {
	return filepath.Join(s.root, folderID, storageName)
}

// Open returns the stored object for streaming to a response.
func (s *Storage) Open(folderID, storageName string) (*os.File, error) {
	f, err := os.Open(s.Path(folderID, storageName))
	if os.IsNotExist(err) {
		return nil, ErrMissingOnDisk
	}
	return f, err
}

// Delete removes the on-disk object. A missing object is tolerated and
// logged, so deletion stays idempotent for the caller.
func (s *Storage) Delete(folderID, storageName string) error {
	err := os.Remove(s.Path(folderID, storageName))
	if os.IsNotExist(err) {
		log.Printf("storage: object already gone: %s/%s", folderID, storageName)
		return nil
	}
	return err
}

// RemoveFolder deletes the whole per-folder directory. Used by the
// folder-deletion cascade.
func (s *Storage) RemoveFolder(folderID string) error {
	return os.RemoveAll(filepath.Join(s.root, folderID))
}

// generateStorageName derives a collision-resistant on-disk name:
// a short random disambiguator, the base name with everything outside
// [A-Za-z0-9.-] replaced by "_", and the original extension. This keeps
// names loosely recognizable while blocking path traversal and
// filesystem-hostile characters.
func generateStorageName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := filepath.Base(originalName)
	base = strings.TrimSuffix(base, ext)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return '_'
	}, base)
	if base == "" {
		base = "file"
	}
	return uuid.New().String()[:8] + "_" + base + ext
}
