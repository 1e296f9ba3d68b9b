package docstore

import "errors"

var (
	// ErrInvalidReference marks a document or collection descriptor with an
	// empty collection name or id.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrStoreUnavailable marks a persisted snapshot that could not be
	// parsed. The store keeps running memory-only after reporting it once.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound marks an update against a document that does not exist.
	ErrNotFound = errors.New("document not found")
)
