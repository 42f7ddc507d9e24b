package document

import "errors"

// Errors returned by document operations.
var (
	// ErrLineOutOfRange indicates a line index outside the document.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrClosed indicates the document was closed.
	ErrClosed = errors.New("document closed")
)
