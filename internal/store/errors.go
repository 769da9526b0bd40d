package store

import "errors"

var (
	// ErrInvalidID means a metric id is not in the catalog. It indicates a
	// caller/catalog mismatch and is surfaced to the caller.
	ErrInvalidID = errors.New("metric id not in catalog")

	// ErrUnknownGroup means a weight selector is not a known group.
	ErrUnknownGroup = errors.New("unknown weight group")

	// ErrDecodeFailure means a transport payload or persisted blob was
	// malformed or carried an unsupported version.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrPersistenceUnavailable means the blob store could not be read or
	// written.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
