// Package media stores uploaded files on disk and hands out stable
// references to them.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"commune/internal/models"

	"github.com/google/uuid"
)

// MaxUploadSize bounds a single upload.
const MaxUploadSize int64 = 5 << 20 // 5 Megabyte

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Store saves uploads under a directory and addresses them by reference.
// A reference is the generated filename; the HTTP layer maps it to a URL
// under the configured media base path.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates the backing directory if needed.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save copies the upload to disk under a random name and returns its
// reference. The original filename only contributes its extension.
func (s *Store) Save(originalName string, size int64, r io.Reader) (string, error) {
	if size > MaxUploadSize {
		return "", models.NewValidationError(fmt.Sprintf("Upload exceeds the %dMB size limit", MaxUploadSize>>20))
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", models.NewValidationError("Unsupported file type")
	}

	ref := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer f.Close()

	// LimitReader guards against a size header smaller than the body.
	written, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(f.Name())
		return "", models.NewInternalError(err)
	}
	if written > MaxUploadSize {
		os.Remove(f.Name())
		return "", models.NewValidationError(fmt.Sprintf("Upload exceeds the %dMB size limit", MaxUploadSize>>20))
	}

	return ref, nil
}

// URL maps a reference to its public URL. Empty references map to "".
func (s *Store) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.baseURL + "/" + ref
}

// Dir returns the backing directory, for static file serving.
func (s *Store) Dir() string {
	return s.dir
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	// Reject references that escape the store directory.
	if strings.ContainsAny(ref, "/\\") {
		return models.NewValidationError("Invalid media reference")
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}
