// Package storage persists uploaded product images on the local disk and
// hands back relative references the API serves to clients.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Formats accepted for product images.
var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// ImageStore writes uploads under root/products and deletes them again when
// a product's image is replaced or removed.
type ImageStore struct {
	root     string
	maxBytes int64
}

// NewImageStore creates the products directory under root if needed.
func NewImageStore(root string, maxKB int64) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{root: root, maxBytes: maxKB * 1024}, nil
}

// Validate checks the upload against the format allow-list and the size
// ceiling. It returns human-readable violations for the "image" field;
// an empty slice means the file is acceptable.
func (s *ImageStore) Validate(fh *multipart.FileHeader) []string {
	var reasons []string
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		reasons = append(reasons, "The image must be a file of type: jpeg, png, jpg, gif.")
	}
	if fh.Size > s.maxBytes {
		reasons = append(reasons, fmt.Sprintf("The image must not be greater than %d kilobytes.", s.maxBytes/1024))
	}
	return reasons
}

// Save writes the upload as products/<unix>_<original-name> and returns the
// relative path stored on the product row. The timestamp prefix keeps
// repeated uploads of the same filename from colliding.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(fh.Filename))
	rel := filepath.Join("products", name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a stored image. A missing file is not an error: the row is
// authoritative and cleanup jobs may run more than once.
func (s *ImageStore) Delete(rel string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
