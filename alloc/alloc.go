// Package alloc provides a bunch-id allocator for callers that need to
// generate fresh identifiers to hand to idlist's insert mutators. It is an
// external collaborator, not part of the persistent tree itself: minting
// identifiers is a caller concern, while the tree only ever stores and
// orders identifiers it's given.
package alloc

import "github.com/google/uuid"

// Allocator holds a single bunchId and tracks the next free counter within
// it, so a single goroutine can grow one bunch across repeated inserts
// instead of minting a new bunchId per call.
type Allocator struct {
	bunchID string
	next    uint64
}

// New starts an allocator with a freshly generated bunchId.
func New() *Allocator {
	return &Allocator{bunchID: uuid.NewString()}
}

// NewWithBunchID starts an allocator reusing an existing bunchId, for
// resuming allocation after a restart once the caller knows the highest
// counter already used (e.g. via IdentifierList.MaxCounter).
func NewWithBunchID(bunchID string, nextCounter uint64) *Allocator {
	return &Allocator{bunchID: bunchID, next: nextCounter}
}

// BunchID returns the bunch this allocator is minting counters for.
func (a *Allocator) BunchID() string { return a.bunchID }

// Next returns the next unused counter in this allocator's bunch and
// advances past it.
func (a *Allocator) Next() uint64 {
	c := a.next
	a.next++
	return c
}

// Reserve advances past n counters at once, for batch inserts, and returns
// the first counter of the reserved range.
func (a *Allocator) Reserve(n uint64) uint64 {
	c := a.next
	a.next += n
	return c
}
