package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expensetracker/config"
)

var (
	// ErrExtensionNotAllowed is returned for files whose extension is not
	// in the configured allow list.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	// ErrFileTooLarge is returned when a file exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// FileStore persists expense attachments in the configured upload
// directory. Stored names get a timestamp prefix to avoid collisions.
type FileStore struct {
	dir     string
	allowed map[string]struct{}
	maxSize int64
}

// NewFileStore creates a store over cfg.Dir, creating the directory if
// needed.
func NewFileStore(cfg *config.UploadConfig) (*FileStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &FileStore{
		dir:     cfg.Dir,
		allowed: allowed,
		maxSize: int64(cfg.MaxSizeMB) << 20,
	}, nil
}

// Allowed reports whether the filename's extension is accepted.
func (s *FileStore) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// Save writes the file under a timestamp-prefixed sanitized name and
// returns the storage path.
func (s *FileStore) Save(originalName string, r io.Reader) (string, error) {
	if !s.Allowed(originalName) {
		return "", ErrExtensionNotAllowed
	}

	name := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102150405"), SanitizeFilename(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > s.maxSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return path, nil
}

// Remove deletes a stored file.
func (s *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SanitizeFilename strips any path components and replaces characters that
// are unsafe in filenames.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	return out
}
