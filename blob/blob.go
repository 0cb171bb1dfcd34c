// Package blob defines the contract for the binary object backend.
//
// The store is addressed by opaque string keys (the file's external id) and
// provides durable at-least-once writes; there is no transactional coupling
// with the metadata store. Implementations must be safe for concurrent use.
package blob

import (
	"context"
	"io"
	"time"
)

// Error codes surfaced by blob store implementations.
const (
	// CodeObjectNotFound is returned when no object exists under the key.
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
)

// Store is the binary object backend consumed by the ingestion and
// retrieval paths.
type Store interface {
	// Put streams r into the object stored under key. The payload length is
	// unknown in advance; implementations must use a chunked write and never
	// materialize the whole payload in memory.
	Put(ctx context.Context, key string, r io.Reader) error

	// Open returns a read stream and stat info for the object under key.
	// The caller must close the stream on every exit path.
	Open(ctx context.Context, key string) (io.ReadCloser, Info, error)

	// Remove deletes the object under key.
	Remove(ctx context.Context, key string) error
}

// Info is the backend's view of a stored object.
type Info struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}
