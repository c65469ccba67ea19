package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// SampleRow is one supervised training sample: the raw canonical board for
// a (game, move) together with the search's visit-count policy and the
// final outcome target from white's perspective. Model-agnostic; trainers
// featurize the board however they like.
type SampleRow struct {
	RunID       string    `parquet:"run_id,dict"`
	Game        int32     `parquet:"game"`
	Move        int32     `parquet:"move"`
	BoardHash   uint64    `parquet:"board_hash"`
	Board       []byte    `parquet:"board"`
	Policy      []float32 `parquet:"policy"`
	Value       float32   `parquet:"value"`
	Simulations int32     `parquet:"simulations"`
}

// WriteSamples writes training samples as zstd-compressed parquet. The file
// appears atomically: data goes to a temp file first, renamed on success.
func WriteSamples(outPath string, rows []SampleRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "selfplay_sample_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadSamples loads a sample file written by WriteSamples.
func ReadSamples(path string) ([]SampleRow, error) {
	rows, err := parquet.ReadFile[SampleRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
