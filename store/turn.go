// Package store archives decided turns to Parquet so matches can be replayed
// and inspected offline.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Schema is written into every archive's key/value metadata.
const Schema = "wombat_turn_v1"

// TurnRow is one decided turn of one match.
//
// Memory is the global memory blob after the turn, exactly as returned in
// saved-state, so a replay can decode it with memory.Decode. Turn numbers
// count from 1 per match in the order the recorder saw them.
type TurnRow struct {
	MatchID string `parquet:"match_id,dict"`
	Turn    int32  `parquet:"turn"`
	AtMs    int64  `parquet:"at_ms"`

	X      int32 `parquet:"x"`
	Y      int32 `parquet:"y"`
	Width  int32 `parquet:"width"`
	Height int32 `parquet:"height"`

	Orientation string `parquet:"orientation,dict"`
	Action      string `parquet:"action,dict"`
	Direction   string `parquet:"direction,dict,optional"`
	Reason      string `parquet:"reason,dict,optional"`

	Memory string `parquet:"memory,optional"`

	ElapsedUs int64  `parquet:"elapsed_us"`
	Error     string `parquet:"error,optional"`
}

// ReadTurns loads every row of one archive file.
func ReadTurns(path string) ([]TurnRow, error) {
	rows, err := parquet.ReadFile[TurnRow](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadArchive loads a single file, or every finalized batch in a directory,
// and returns the rows ordered by match and turn.
func ReadArchive(path string) ([]TurnRow, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.parquet"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	}

	var all []TurnRow
	for _, f := range files {
		rows, err := ReadTurns(f)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	SortTurns(all)
	return all, nil
}

// SortTurns orders rows by match id, then turn.
func SortTurns(rows []TurnRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := strings.Compare(rows[i].MatchID, rows[j].MatchID); c != 0 {
			return c < 0
		}
		return rows[i].Turn < rows[j].Turn
	})
}

// Matches lists the distinct match ids in rows in first-seen order.
func Matches(rows []TurnRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.MatchID]; ok {
			continue
		}
		seen[r.MatchID] = struct{}{}
		out = append(out, r.MatchID)
	}
	return out
}

// ForMatch returns the rows belonging to id, preserving order.
func ForMatch(rows []TurnRow, id string) []TurnRow {
	var out []TurnRow
	for _, r := range rows {
		if r.MatchID == id {
			out = append(out, r)
		}
	}
	return out
}
