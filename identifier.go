package idlist

import "fmt"

// maxSafeCounter mirrors the JS double-precision safe-integer boundary the
// original spec was written against (2^53 - 1), so counters exchanged with a
// peer over the codec wire format stay representable on both ends.
const maxSafeCounter = 1<<53 - 1

// Identifier is a pair (bunchId, counter) that uniquely names one element of
// an IdentifierList. Two identifiers are equal when both fields are equal.
type Identifier struct {
	BunchID string
	Counter uint64
}

// String renders an Identifier for debugging and error messages.
func (id Identifier) String() string {
	return fmt.Sprintf("%s@%d", id.BunchID, id.Counter)
}

func validCounter(c uint64) bool {
	return c <= maxSafeCounter
}

// expand yields the n identifiers (start.BunchID, start.Counter+i) for
// i in [0, n). It fails with ErrInvalidArgument if the resulting range would
// overflow maxSafeCounter.
func expand(start Identifier, n uint64) ([]Identifier, error) {
	if n == 0 {
		return nil, nil
	}
	if !validCounter(start.Counter) || start.Counter+n-1 > maxSafeCounter {
		return nil, fmt.Errorf("%w: counter range [%d,%d) exceeds safe range", ErrInvalidArgument, start.Counter, start.Counter+n)
	}
	out := make([]Identifier, n)
	for i := uint64(0); i < n; i++ {
		out[i] = Identifier{BunchID: start.BunchID, Counter: start.Counter + i}
	}
	return out, nil
}
