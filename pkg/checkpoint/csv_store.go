package checkpoint

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"trendcheck-go/pkg/logger"
	"trendcheck-go/pkg/scorer"
)

var csvHeader = []string{"keyword", "score", "category", "has_data", "checked_at", "attempts", "error"}

// CSVStore keeps the cumulative result set in a single CSV file. The
// file written by Flush is the same file LoadExisting parses, so the
// schema must stay round-trip stable.
type CSVStore struct {
	path string
	log  *logger.Logger
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{
		path: path,
		log:  logger.GetLogger().Component("checkpoint"),
	}
}

// Path returns the checkpoint file location.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) LoadExisting(ctx context.Context) ([]scorer.ScoreResult, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: fmt.Errorf("missing column %q", name)}
		}
	}

	results := make([]scorer.ScoreResult, 0, len(rows)-1)
	for _, row := range rows[1:] {
		score, err := strconv.ParseFloat(row[col["score"]], 64)
		if err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: fmt.Errorf("bad score %q: %w", row[col["score"]], err)}
		}
		hasData, err := strconv.ParseBool(row[col["has_data"]])
		if err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: fmt.Errorf("bad has_data %q: %w", row[col["has_data"]], err)}
		}
		attempts, err := strconv.Atoi(row[col["attempts"]])
		if err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: fmt.Errorf("bad attempts %q: %w", row[col["attempts"]], err)}
		}

		results = append(results, scorer.ScoreResult{
			Keyword:   row[col["keyword"]],
			Score:     score,
			Category:  row[col["category"]],
			HasData:   hasData,
			CheckedAt: row[col["checked_at"]],
			Attempts:  attempts,
			Error:     row[col["error"]],
		})
	}

	s.log.WithFields(map[string]interface{}{
		"file":  s.path,
		"count": len(results),
	}).Info("Loaded existing checkpoint")

	return results, nil
}

// Flush writes the full result set to a temp file and renames it over
// the checkpoint, so a crash mid-write never leaves a half-written file
// behind.
func (s *CSVStore) Flush(ctx context.Context, results []scorer.ScoreResult) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}
	for _, r := range results {
		row := []string{
			r.Keyword,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			r.Category,
			strconv.FormatBool(r.HasData),
			r.CheckedAt,
			strconv.Itoa(r.Attempts),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return &PersistenceError{Op: "flush", Path: s.path, Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return &PersistenceError{Op: "flush", Path: s.path, Err: err}
	}

	s.log.WithFields(map[string]interface{}{
		"file":  s.path,
		"count": len(results),
	}).Debug("Checkpoint flushed")

	return nil
}
