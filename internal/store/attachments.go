package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore holds uploaded spot images on disk, content-addressed so a
// re-upload of the same bytes lands on the same reference. Files are
// served from the router's static /images route.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes one image payload and returns its public reference.
func (s *ImageStore) Save(filename string, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + imageExt(filename)

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return "/images/" + name, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/images/" + name, nil
}

func imageExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png", ".jpg", ".jpeg", ".heic", ".webp":
		return ext
	}
	return ".jpg"
}
