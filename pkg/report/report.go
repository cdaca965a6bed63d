package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"trendcheck-go/pkg/checkpoint"
	"trendcheck-go/pkg/logger"
	"trendcheck-go/pkg/scorer"
)

// Exporter turns a finished result set into report artifacts: a JSON
// summary and a trending subset CSV readable by the checkpoint loader.
type Exporter struct {
	// ScoreThreshold is the minimum score for the trending subset.
	ScoreThreshold float64
	// TopN caps the keyword list embedded in the summary.
	TopN int

	log *logger.Logger
}

func NewExporter(scoreThreshold float64) *Exporter {
	return &Exporter{
		ScoreThreshold: scoreThreshold,
		TopN:           50,
		log:            logger.GetLogger().Component("report"),
	}
}

type summaryEntry struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// Export writes report files into outDir.
func (e *Exporter) Export(ctx context.Context, results []scorer.ScoreResult, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	trending := e.trending(results)
	if err := e.writeSummary(results, trending, outDir); err != nil {
		return err
	}
	if err := e.writeTrendingCSV(ctx, trending, outDir); err != nil {
		return err
	}

	e.log.WithFields(map[string]interface{}{
		"dir":      outDir,
		"total":    len(results),
		"trending": len(trending),
	}).Info("Report exported")

	return nil
}

// trending returns results with data and score at or above the
// threshold, highest score first.
func (e *Exporter) trending(results []scorer.ScoreResult) []scorer.ScoreResult {
	var trending []scorer.ScoreResult
	for _, r := range results {
		if r.HasData && r.Score >= e.ScoreThreshold {
			trending = append(trending, r)
		}
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Score > trending[j].Score
	})
	return trending
}

func (e *Exporter) writeSummary(results, trending []scorer.ScoreResult, outDir string) error {
	categories := make(map[string]int)
	withData := 0
	failed := 0
	var totalScore float64
	for _, r := range results {
		categories[r.Category]++
		if r.HasData {
			withData++
		}
		if r.Error != "" {
			failed++
		}
		totalScore += r.Score
	}

	avgScore := 0.0
	if len(results) > 0 {
		avgScore = totalScore / float64(len(results))
	}

	top := make([]summaryEntry, 0, e.TopN)
	for _, r := range trending {
		if len(top) >= e.TopN {
			break
		}
		top = append(top, summaryEntry{Keyword: r.Keyword, Score: r.Score})
	}

	summary := map[string]interface{}{
		"report_time":        time.Now().Format(time.RFC3339),
		"total_keywords":     len(results),
		"keywords_with_data": withData,
		"failed_keywords":    failed,
		"average_score":      avgScore,
		"score_threshold":    e.ScoreThreshold,
		"trending_count":     len(trending),
		"category_breakdown": categories,
		"top_keywords":       top,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	path := filepath.Join(outDir, "trend_summary.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// writeTrendingCSV persists the trending subset in the same schema as
// the checkpoint file, so existing tooling can parse it.
func (e *Exporter) writeTrendingCSV(ctx context.Context, trending []scorer.ScoreResult, outDir string) error {
	store := checkpoint.NewCSVStore(filepath.Join(outDir, "trending_keywords.csv"))
	if err := store.Flush(ctx, trending); err != nil {
		return fmt.Errorf("failed to write trending subset: %w", err)
	}
	return nil
}
