package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting a search", func(t *testing.T) {
		c := NewCollector()
		c.Start(4)
		c.AddSimulation()
		c.AddSimulation()
		c.AddNodesTraversed(3)
		c.AddBatch(4, 2*time.Millisecond)
		c.AddBatch(4, 3*time.Millisecond)

		got := c.Complete()

		require.Equal(t, 4, got.Workers)
		require.Equal(t, 2, got.Simulations)
		require.Equal(t, 3, got.NodesTraversed)
		require.Equal(t, 2, got.Batches)
		require.Equal(t, 8, got.BatchPositions)
		require.Equal(t, 5*time.Millisecond, got.InferenceTime)
		require.Greater(t, got.Duration, time.Duration(0))
	})

	t.Run("Start resets the previous search", func(t *testing.T) {
		c := NewCollector()
		c.Start(1)
		c.AddSimulation()
		c.Complete()

		c.Start(2)
		got := c.Complete()

		require.Zero(t, got.Simulations, "Counts must not leak across searches")
		require.Equal(t, 2, got.Workers)
	})

	t.Run("dummy collector collects nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(8)
		c.AddSimulation()
		c.AddBatch(8, time.Second)

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	require.NotEmpty(t, w.RunID(), "Every run gets an id")

	records := []SearchRecord{
		{Game: 0, Move: 0, BoardHash: 42, SearchMetric: SearchMetric{Workers: 4, Simulations: 100}},
		{Game: 0, Move: 1, BoardHash: 43, SearchMetric: SearchMetric{Workers: 4, Simulations: 100}},
	}
	require.NoError(t, w.WriteSearchRecords(records))

	f, err := os.Open(filepath.Join(w.Dir(), "search_records.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "Header plus one row per record")
	require.Equal(t, "game", rows[0][0])
	require.Equal(t, "42", rows[1][2], "The board hash should round-trip")
	require.Equal(t, "100", rows[2][4], "The simulation count should round-trip")
}

func TestSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.parquet")
	rows := []SampleRow{
		{RunID: "r1", Game: 0, Move: 0, BoardHash: 7, Board: []byte("board-a"),
			Policy: []float32{0.25, 0.75}, Value: 1, Simulations: 100},
		{RunID: "r1", Game: 0, Move: 1, BoardHash: 8, Board: []byte("board-b"),
			Policy: []float32{1}, Value: -1, Simulations: 100},
	}

	require.NoError(t, WriteSamples(path, rows))
	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "The temp file should be gone after the rename")

	got, err := ReadSamples(path)
	require.NoError(t, err)
	require.Equal(t, rows, got, "Samples should round-trip through parquet")
}
