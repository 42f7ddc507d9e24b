package line

import "errors"

// Errors raised as panics on contract violations.
var (
	// ErrDestroyed indicates a handle was referenced after its count reached zero.
	ErrDestroyed = errors.New("line handle used after destruction")

	// ErrTextNotTicketed indicates text was changed through an Editor
	// obtained from LockForWrite instead of LockForWriteText.
	ErrTextNotTicketed = errors.New("text mutation requires LockForWriteText")
)
