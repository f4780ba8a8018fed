package storage

import "errors"

// Sentinel errors shared by every store implementation. Bar and metric
// history is append-only, so a key collision is a caller mistake rather
// than an update.
var (
	// ErrNotFound marks a symbol with no stored rows.
	ErrNotFound = errors.New("no rows for symbol")

	// ErrDuplicateKey marks an insert whose (symbol, timestamp) key is
	// already present.
	ErrDuplicateKey = errors.New("duplicate bar key")

	// ErrInvalidInput marks a structurally unusable argument, e.g. an
	// empty batch.
	ErrInvalidInput = errors.New("invalid input")
)
