package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// SearchRecord ties one Explore's metrics to its place in a self-play run.
type SearchRecord struct {
	Game      int
	Move      int
	BoardHash uint64
	SearchMetric
}

// Writer stores run artifacts under a per-run directory named by a fresh
// UUID, so repeated runs never clobber each other.
type Writer struct {
	baseDir string
	runID   string
}

func NewWriter(root string) (*Writer, error) {
	runID := uuid.NewString()
	baseDir := filepath.Join(root, runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{baseDir: baseDir, runID: runID}, nil
}

func (w *Writer) RunID() string {
	return w.runID
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	path := filepath.Join(w.baseDir, "search_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "move", "board_hash", "workers", "simulations",
		"nodes_traversed", "batches", "batch_positions", "inference_us", "duration_us"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search records header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Move),
			strconv.FormatUint(r.BoardHash, 10),
			strconv.Itoa(r.Workers),
			strconv.Itoa(r.Simulations),
			strconv.Itoa(r.NodesTraversed),
			strconv.Itoa(r.Batches),
			strconv.Itoa(r.BatchPositions),
			strconv.FormatInt(r.InferenceTime.Microseconds(), 10),
			strconv.FormatInt(r.Duration.Microseconds(), 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search record: %w", err)
		}
	}
	return nil
}
