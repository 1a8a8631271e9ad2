package ports

import "context"

// BlobStore uploads one image per mutating request and returns a durable
// public URL.
type BlobStore interface {
	// Store validates the upload (format allow-list, size cap), writes it
	// under a collision-resistant key and returns the public URL.
	Store(ctx context.Context, filename string, data []byte) (string, error)
}
