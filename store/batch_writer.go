package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// BatchWriter streams rows into outDir/tmp and moves the finished file into
// outDir on Finalize, so readers never see a partial archive.
type BatchWriter struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[TurnRow]

	rows    int
	matches map[string]struct{}
}

func NewBatchWriter(outDir string) (*BatchWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("turns_%d.parquet", time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[TurnRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("memory"),
	)
	w.SetKeyValueMetadata("schema", Schema)

	return &BatchWriter{
		tmpPath: tmpPath,
		outPath: filepath.Join(absOut, name),
		file:    f,
		writer:  w,
		matches: make(map[string]struct{}),
	}, nil
}

func (b *BatchWriter) TmpPath() string { return b.tmpPath }
func (b *BatchWriter) OutPath() string { return b.outPath }
func (b *BatchWriter) Buffered() int   { return b.rows }

func (b *BatchWriter) WriteRows(rows []TurnRow) error {
	if b.writer == nil || b.file == nil {
		return fmt.Errorf("batch writer is closed")
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := b.writer.Write(rows); err != nil {
		return err
	}
	b.rows += len(rows)
	for _, r := range rows {
		b.matches[r.MatchID] = struct{}{}
	}
	return nil
}

// Finalize closes the file and renames it into place. An empty batch is
// removed and reported with an empty path.
func (b *BatchWriter) Finalize() (outPath string, rows int, matches int, err error) {
	if b.writer == nil && b.file == nil {
		return "", 0, 0, nil
	}

	rows, matches = b.rows, len(b.matches)

	var closeErr, fileErr error
	if b.writer != nil {
		closeErr = b.writer.Close()
		b.writer = nil
	}
	if b.file != nil {
		_ = b.file.Sync()
		fileErr = b.file.Close()
		b.file = nil
	}
	if closeErr != nil {
		return "", 0, 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", 0, 0, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if rows == 0 {
		_ = os.Remove(b.tmpPath)
		return "", 0, 0, nil
	}
	if err := os.Rename(b.tmpPath, b.outPath); err != nil {
		return "", 0, 0, fmt.Errorf("rename parquet: %w", err)
	}
	return b.outPath, rows, matches, nil
}
