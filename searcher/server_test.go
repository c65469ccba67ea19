package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alphatree/oracle"
	"alphatree/ttt"
)

func TestVirtualLossSpread(t *testing.T) {
	// Four equally good root actions, a measurably slow oracle, and four
	// workers: the virtual loss must spread the workers over all four
	// actions. The root is seeded with one simulation first, since a
	// simulation reaching an unseen root only expands it.
	recorder := &recordingOracle{inner: oracle.RandomOracle{}, delay: 5 * time.Millisecond}
	e := New(recorder, WithWorkers(4), WithFillBatches())
	state := newSpread(4)

	require.NoError(t, e.Explore(state, 1))
	require.NoError(t, e.Explore(state, 4))

	info, ok := e.tree.lookup(state.CanonicalBoard())
	require.True(t, ok, "The root should be in the tree")
	for i := range info.stats {
		require.Equal(t, int32(1), info.stats[i].N,
			"Concurrent workers should have spread out: root action %d", i)
	}
	requireConsistentTree(t, e)
}

func TestBatchPadding(t *testing.T) {
	recorder := &recordingOracle{inner: oracle.RandomOracle{}}
	e := New(recorder, WithWorkers(4), WithFillBatches())
	state := newSpread(4)

	require.NoError(t, e.Explore(state, 1))
	require.NoError(t, e.Explore(state, 4))

	batches := recorder.batches()
	require.NotEmpty(t, batches, "The oracle should have been consulted")
	for i, size := range batches {
		require.Equal(t, 4, size, "Batch %d should be padded to the worker count", i)
	}
}

func TestDuplicateCreationDiscarded(t *testing.T) {
	// Both root actions lead to the same position. Two workers request its
	// evaluation concurrently; the second must adopt the record the first
	// inserted and keep descending.
	e := New(oracle.RandomOracle{}, WithWorkers(2))
	state := &mergeState{}

	require.NoError(t, e.Explore(state, 1))
	require.NoError(t, e.Explore(state, 2))

	require.Equal(t, 2, e.TreeSize(), "The shared child should be stored once")

	root, ok := e.tree.lookup(state.CanonicalBoard())
	require.True(t, ok)
	require.Equal(t, int64(2), root.totalVisits(), "Both simulations traversed the root")
	require.Equal(t, int32(1), root.stats[0].N, "The virtual loss should split the workers over both edges")
	require.Equal(t, int32(1), root.stats[1].N, "The virtual loss should split the workers over both edges")
	requireConsistentTree(t, e)
}

func TestOracleFailure(t *testing.T) {
	t.Run("asynchronous explore surfaces the error without deadlock", func(t *testing.T) {
		e := New(failingOracle{}, WithWorkers(4))

		err := e.Explore(newSpread(4), 8)

		require.ErrorIs(t, err, errOracleDown, "Explore should fail with the oracle's error")
	})

	t.Run("synchronous explore surfaces the error", func(t *testing.T) {
		e := New(failingOracle{})

		err := e.Explore(newSpread(4), 8)

		require.ErrorIs(t, err, errOracleDown, "Explore should fail with the oracle's error")
	})

	t.Run("the tree stays usable after a failure", func(t *testing.T) {
		e := New(oracle.RandomOracle{}, WithWorkers(2))
		state := ttt.New()
		require.NoError(t, e.Explore(state, 10))
		before := e.TreeSize()

		e.oracle = failingOracle{}
		require.Error(t, e.Explore(state, 10), "The failing oracle should abort the search")

		e.oracle = oracle.RandomOracle{}
		require.NoError(t, e.Explore(state, 10), "Search should resume on the surviving tree")
		require.GreaterOrEqual(t, e.TreeSize(), before, "Nodes inserted before the failure remain valid")
	})
}
