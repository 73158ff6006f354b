package idlist

import "errors"

// Named error kinds. Every mutator and accessor documents which of these it
// may return; all are safe to test with errors.Is since they are returned
// directly or wrapped with fmt.Errorf("%w: ...").
var (
	// ErrNotKnown is returned when an operation is given an identifier that
	// has never been inserted into the list (or was uninserted).
	ErrNotKnown = errors.New("idlist: identifier not known")

	// ErrAlreadyKnown is returned by insertAfter/insertBefore when one of
	// the identifiers to be inserted is already known.
	ErrAlreadyKnown = errors.New("idlist: identifier already known")

	// ErrOutOfBounds is returned by at(index) when index is outside [0, length).
	ErrOutOfBounds = errors.New("idlist: index out of bounds")

	// ErrInvalidArgument is returned for counters or counter ranges above
	// maxSafeCounter (2^53 - 1), and for Saved records whose ranges overlap
	// for the same bunch.
	ErrInvalidArgument = errors.New("idlist: invalid argument")
)
