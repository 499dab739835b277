package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned when a blob reference does not resolve to a stored file.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists uploaded files under a namespaced area and resolves a
// stored reference to a public URL. The reference is opaque to callers and is
// what gets recorded on the report row.
type BlobStore interface {
	// Store writes the contents of r and returns the blob reference. nameHint
	// is only consulted for its extension; the stored name is generated.
	Store(area, nameHint string, r io.Reader) (string, error)
	// URL returns the absolute public URL for a reference.
	URL(ref string) string
	// Open returns the stored bytes for a reference.
	Open(ref string) (io.ReadCloser, error)
	// Delete removes the blob. Returns ErrNotFound if the reference does not exist.
	Delete(ref string) error
}
