package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeInsert(t *testing.T) {
	t.Run("inserting and looking up a node", func(t *testing.T) {
		tr := newTree()
		info := newBoardInfo([]float32{0.5, 0.5}, 0.1)

		tr.insert("b1", info)

		got, ok := tr.lookup("b1")
		require.True(t, ok, "Inserted node should be found")
		require.Same(t, info, got, "Lookup should return the inserted record")
		require.Equal(t, 1, tr.size(), "Tree should hold one node")
	})

	t.Run("panics on double insert", func(t *testing.T) {
		tr := newTree()
		tr.insert("b1", newBoardInfo([]float32{1}, 0))

		require.Panics(t, func() {
			tr.insert("b1", newBoardInfo([]float32{1}, 0))
		}, "A node must be inserted exactly once")
	})
}

func TestTreeApplyVisit(t *testing.T) {
	t.Run("incrementing visit and worker counts", func(t *testing.T) {
		tr := newTree()
		tr.insert("b1", newBoardInfo([]float32{0.5, 0.5}, 0))

		tr.applyVisit("b1", 1)

		info, _ := tr.lookup("b1")
		require.Equal(t, int32(1), info.stats[1].N, "Visit should increment N")
		require.Equal(t, uint16(1), info.stats[1].inflight, "Visit should add a virtual loss")
		require.Equal(t, int32(0), info.stats[0].N, "Other edges should not change")
	})

	t.Run("panics on out of range action", func(t *testing.T) {
		tr := newTree()
		tr.insert("b1", newBoardInfo([]float32{1}, 0))

		require.Panics(t, func() {
			tr.applyVisit("b1", 3)
		}, "Action index must be within the node's edges")
	})
}

func TestTreeApplyBackup(t *testing.T) {
	t.Run("crediting reward and releasing the virtual loss", func(t *testing.T) {
		tr := newTree()
		tr.insert("b1", newBoardInfo([]float32{0.5, 0.5}, 0))
		tr.applyVisit("b1", 0)

		tr.applyBackup("b1", 0, -1)

		info, _ := tr.lookup("b1")
		require.Equal(t, -1.0, info.stats[0].W, "Backup should add the reward to W")
		require.Equal(t, int32(1), info.stats[0].N, "Backup should not change N")
		require.Equal(t, uint16(0), info.stats[0].inflight, "Backup should release the virtual loss")
	})

	t.Run("panics when no worker is in flight", func(t *testing.T) {
		tr := newTree()
		tr.insert("b1", newBoardInfo([]float32{1}, 0))

		require.Panics(t, func() {
			tr.applyBackup("b1", 0, 1)
		}, "Backup without a matching visit must not drive the worker count below zero")
	})

	t.Run("panics on a board that was never inserted", func(t *testing.T) {
		tr := newTree()

		require.Panics(t, func() {
			tr.applyBackup("missing", 0, 1)
		}, "Backup must only touch boards already in the store")
	})
}

func TestBoardInfoTotalVisits(t *testing.T) {
	info := newBoardInfo([]float32{0.2, 0.3, 0.5}, 0)
	info.stats[0].N = 3
	info.stats[2].N = 4

	require.Equal(t, int64(7), info.totalVisits(), "Ntot should sum N over all edges")
}
