package services

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// ScannedImagesRoute is where the router serves stored captures from.
const ScannedImagesRoute = "/images/scanned"

// ImageStorage keeps the captured card photos on disk so a saved card
// still has its scan image when the service returned none.
type ImageStorage struct {
	storageDir string
}

// NewImageStorage ensures the storage directory exists. A creation
// failure is reported by the first SaveImage call instead of here.
func NewImageStorage(storageDir string) *ImageStorage {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		fmt.Printf("Warning: could not create scanned images directory: %v\n", err)
	}
	return &ImageStorage{storageDir: storageDir}
}

// SaveImage writes the capture under a fresh unique filename and returns
// that filename.
func (s *ImageStorage) SaveImage(imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	filename := uuid.New().String() + ".png"
	if err := os.WriteFile(filepath.Join(s.storageDir, filename), imageData, 0644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return filename, nil
}

// Remove deletes a stored capture. Removing a file that is already gone
// is not an error.
func (s *ImageStorage) Remove(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.storageDir, filename)); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: could not remove scanned image %s: %v\n", filename, err)
	}
}

// PublicURL maps a stored filename to the path it is served from.
func (s *ImageStorage) PublicURL(filename string) string {
	return path.Join(ScannedImagesRoute, filename)
}

// StorageDir returns the on-disk directory, for static file serving.
func (s *ImageStorage) StorageDir() string {
	return s.storageDir
}
