package idlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifierString(t *testing.T) {
	id := Identifier{BunchID: "abc", Counter: 7}
	require.Equal(t, "abc@7", id.String())
}

func TestExpand(t *testing.T) {
	ids, err := expand(Identifier{BunchID: "x", Counter: 10}, 3)
	require.NoError(t, err)
	require.Equal(t, []Identifier{
		{BunchID: "x", Counter: 10},
		{BunchID: "x", Counter: 11},
		{BunchID: "x", Counter: 12},
	}, ids)
}

func TestExpandZero(t *testing.T) {
	ids, err := expand(Identifier{BunchID: "x", Counter: 0}, 0)
	require.NoError(t, err)
	require.Nil(t, ids)
}

func TestExpandRejectsUnsafeRange(t *testing.T) {
	_, err := expand(Identifier{BunchID: "x", Counter: maxSafeCounter}, 2)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
