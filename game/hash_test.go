package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBoard(t *testing.T) {
	require.Equal(t, HashBoard("abc"), HashBoard("abc"), "Hashing is deterministic")
	require.NotEqual(t, HashBoard("abc"), HashBoard("abd"), "Different boards should hash apart")
	require.NotZero(t, HashBoard(""), "xxhash of the empty board is still a stable digest")
}
