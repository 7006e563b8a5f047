package arena

import "errors"

var (
	// ErrReadOnly indicates a write inside a read-only transaction.
	ErrReadOnly = errors.New("arena: transaction is read-only")

	// ErrEmptyNamespace indicates a space was requested without a namespace.
	ErrEmptyNamespace = errors.New("arena: namespace must not be empty")

	// ErrEmptyKey indicates a write with an empty key.
	ErrEmptyKey = errors.New("arena: key must not be empty")

	// ErrClosed indicates the arena has been closed.
	ErrClosed = errors.New("arena: closed")

	// ErrCorrupt indicates a stored value could not be decoded.
	ErrCorrupt = errors.New("arena: corrupt value")
)
