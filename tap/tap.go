// Package tap provides a pass-through reader that observes an upload stream
// while it is being written to the blob backend.
//
// A single pass over the stream produces three side products: a SHA-256
// digest of every byte, the exact byte count, and a copy of the leading
// bytes for content-type sniffing. The reader never buffers more than
// HeadLimit bytes regardless of stream size.
package tap

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// HeadLimit is the maximum number of leading bytes retained for sniffing.
const HeadLimit = 64 * 1024

// Reader decorates an io.Reader with digest, count and head-buffer tracking.
// It forwards bytes unchanged and passes upstream errors through as-is.
// Count, SumHex and Head are meaningful once the stream is exhausted.
type Reader struct {
	src    io.Reader
	digest hash.Hash
	count  int64
	head   []byte
}

// New wraps src in a tapped reader.
func New(src io.Reader) *Reader {
	return &Reader{
		src:    src,
		digest: sha256.New(),
		head:   make([]byte, 0, 512),
	}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.count += int64(n)
		r.digest.Write(p[:n])

		if len(r.head) < HeadLimit {
			keep := HeadLimit - len(r.head)
			if keep > n {
				keep = n
			}
			r.head = append(r.head, p[:keep]...)
		}
	}
	return n, err
}

// Count returns the number of bytes read through the tap so far.
func (r *Reader) Count() int64 {
	return r.count
}

// SumHex returns the lowercase hex SHA-256 digest of the bytes read so far.
func (r *Reader) SumHex() string {
	return hex.EncodeToString(r.digest.Sum(nil))
}

// Head returns the retained leading bytes (at most HeadLimit).
// The returned slice is owned by the Reader and must not be modified.
func (r *Reader) Head() []byte {
	return r.head
}
