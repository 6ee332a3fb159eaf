package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// StorageService stores uploaded originals under a Year/Month layout and
// resolves stored paths back to disk. Every resolved path is checked to
// stay inside the base directory.
type StorageService struct {
	basePath          string
	allowedExtensions map[string]bool
	maxFileSizeBytes  int64
}

// NewStorageService creates a new StorageService
func NewStorageService(basePath string, allowedExtensions []string, maxFileSizeMB int64) (*StorageService, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}

	extSet := make(map[string]bool)
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif"}
	}
	for _, ext := range allowedExtensions {
		extSet[strings.ToLower(ext)] = true
	}

	return &StorageService{
		basePath:          absPath,
		allowedExtensions: extSet,
		maxFileSizeBytes:  maxFileSizeMB * 1024 * 1024,
	}, nil
}

// Save writes an upload to disk and returns its relative stored path, using
// forward slashes regardless of platform.
func (s *StorageService) Save(reader io.Reader, originalFilename string, takenAt time.Time, fileSize int64) (string, error) {
	if fileSize > s.maxFileSizeBytes {
		return "", models.ErrFileTooLarge
	}

	name := sanitizeFilename(originalFilename)
	ext := strings.ToLower(filepath.Ext(name))
	if !s.allowedExtensions[ext] {
		return "", models.ErrInvalidExtension
	}

	relativeDir := filepath.Join(takenAt.Format("2006"), takenAt.Format("01"))
	absoluteDir := filepath.Join(s.basePath, relativeDir)
	if err := os.MkdirAll(absoluteDir, 0755); err != nil {
		return "", err
	}

	relativePath := filepath.Join(relativeDir, uniqueFilename(absoluteDir, name))
	absolutePath := filepath.Join(s.basePath, relativePath)
	if !strings.HasPrefix(absolutePath, s.basePath) {
		return "", models.ErrPathTraversal
	}

	file, err := os.OpenFile(absolutePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(absolutePath)
		return "", err
	}

	return strings.ReplaceAll(relativePath, string(os.PathSeparator), "/"), nil
}

// Resolve maps a stored path to an absolute path, rejecting anything that
// escapes the base directory.
func (s *StorageService) Resolve(storedPath string) (string, error) {
	if strings.TrimSpace(storedPath) == "" {
		return "", fmt.Errorf("stored path cannot be empty")
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storedPath))
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, s.basePath) {
		return "", models.ErrPathTraversal
	}
	return absPath, nil
}

// Delete removes a stored file. Returns false when the path was invalid or
// nothing was removed.
func (s *StorageService) Delete(storedPath string) bool {
	fullPath, err := s.Resolve(storedPath)
	if err != nil {
		return false
	}
	return os.Remove(fullPath) == nil
}

// Exists reports whether a stored path is present on disk
func (s *StorageService) Exists(storedPath string) bool {
	fullPath, err := s.Resolve(storedPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// BasePath returns the absolute storage root
func (s *StorageService) BasePath() string {
	return s.basePath
}

// sanitizeFilename strips path components and characters that are unsafe in
// stored filenames
func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)

	replacer := strings.NewReplacer(
		"..", "",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	const maxLength = 200
	if len(name) > maxLength {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		if len(base) > maxLength-len(ext) {
			base = base[:maxLength-len(ext)]
		}
		name = base + ext
	}
	return name
}

// uniqueFilename appends a numeric suffix until the name is free in dir
func uniqueFilename(dir, name string) string {
	candidate := name
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}
