// Package storage abstracts where uploaded product image bytes live.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// Storage stores objects and resolves their public URLs.
type Storage interface {
	// Upload stores an object and returns its key and public URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key.
	URL(key string) string
}

type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

type UploadResult struct {
	Key string
	URL string
}

// ProductImageKey returns a fresh object key for an image of productID.
func ProductImageKey(productID, ext string) string {
	return path.Join("products", productID, fmt.Sprintf("%s%s", uuid.New().String(), ext))
}
