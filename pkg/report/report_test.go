package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"trendcheck-go/pkg/checkpoint"
	"trendcheck-go/pkg/scorer"
)

func reportResults() []scorer.ScoreResult {
	return []scorer.ScoreResult{
		{Keyword: "linux commands", Score: 92, Category: "very_high", HasData: true, Attempts: 1},
		{Keyword: "install docker", Score: 78.5, Category: "high", HasData: true, Attempts: 1},
		{Keyword: "niche term", Score: 12, Category: "very_low", HasData: true, Attempts: 1},
		{Keyword: "broken", Score: 0, Category: "no_data", HasData: false, Attempts: 3, Error: "no data"},
	}
}

func TestExport_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(50)

	if err := exporter.Export(context.Background(), reportResults(), dir); err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "trend_summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}

	var summary struct {
		TotalKeywords     int            `json:"total_keywords"`
		KeywordsWithData  int            `json:"keywords_with_data"`
		FailedKeywords    int            `json:"failed_keywords"`
		TrendingCount     int            `json:"trending_count"`
		CategoryBreakdown map[string]int `json:"category_breakdown"`
		TopKeywords       []struct {
			Keyword string  `json:"keyword"`
			Score   float64 `json:"score"`
		} `json:"top_keywords"`
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}

	if summary.TotalKeywords != 4 || summary.KeywordsWithData != 3 || summary.FailedKeywords != 1 {
		t.Errorf("totals = %d/%d/%d, want 4/3/1", summary.TotalKeywords, summary.KeywordsWithData, summary.FailedKeywords)
	}
	if summary.TrendingCount != 2 {
		t.Errorf("trending count = %d, want 2", summary.TrendingCount)
	}
	if summary.CategoryBreakdown["no_data"] != 1 || summary.CategoryBreakdown["very_high"] != 1 {
		t.Errorf("unexpected category breakdown: %v", summary.CategoryBreakdown)
	}
	if len(summary.TopKeywords) != 2 || summary.TopKeywords[0].Keyword != "linux commands" {
		t.Errorf("top keywords must be sorted highest first: %v", summary.TopKeywords)
	}
}

func TestExport_TrendingCSVUsesCheckpointSchema(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(50)

	if err := exporter.Export(context.Background(), reportResults(), dir); err != nil {
		t.Fatalf("export: %v", err)
	}

	store := checkpoint.NewCSVStore(filepath.Join(dir, "trending_keywords.csv"))
	trending, err := store.LoadExisting(context.Background())
	if err != nil {
		t.Fatalf("trending CSV must parse with the checkpoint loader: %v", err)
	}

	if len(trending) != 2 {
		t.Fatalf("got %d trending rows, want 2", len(trending))
	}
	if trending[0].Keyword != "linux commands" || trending[1].Keyword != "install docker" {
		t.Errorf("trending rows out of order: %v", trending)
	}
	for _, r := range trending {
		if !r.HasData || r.Score < exporter.ScoreThreshold {
			t.Errorf("row below threshold or without data leaked into trending: %+v", r)
		}
	}
}

func TestExport_TopNCap(t *testing.T) {
	results := make([]scorer.ScoreResult, 60)
	for i := range results {
		results[i] = scorer.ScoreResult{
			Keyword:  string(rune('a'+i%26)) + " keyword",
			Score:    float64(40 + i%50),
			Category: "medium",
			HasData:  true,
			Attempts: 1,
		}
	}

	dir := t.TempDir()
	exporter := NewExporter(0)
	exporter.TopN = 10

	if err := exporter.Export(context.Background(), results, dir); err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "trend_summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary struct {
		TopKeywords []json.RawMessage `json:"top_keywords"`
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summary.TopKeywords) != 10 {
		t.Errorf("top keywords = %d entries, want 10", len(summary.TopKeywords))
	}
}

func TestExport_EmptyResults(t *testing.T) {
	dir := t.TempDir()
	if err := NewExporter(10).Export(context.Background(), nil, dir); err != nil {
		t.Fatalf("empty export must succeed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trend_summary.json")); err != nil {
		t.Errorf("summary missing: %v", err)
	}
}
