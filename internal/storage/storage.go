// Package storage provides blob storage for uploaded media. Post and
// profile images are stored out of process; the API keeps only the
// returned URL and object key.
package storage

import (
	"context"
	"io"
)

// BlobStore stores and deletes media blobs.
type BlobStore interface {
	// Put stores the blob and returns its public URL and object key.
	Put(ctx context.Context, r io.Reader, size int64, contentType string) (url, key string, err error)
	// Delete removes a blob by its object key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
