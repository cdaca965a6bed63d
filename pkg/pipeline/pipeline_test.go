package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"trendcheck-go/pkg/checkpoint"
	"trendcheck-go/pkg/scorer"
)

func fastConfig() Config {
	return Config{
		BatchSize:       2,
		MaxConcurrent:   2,
		MaxRetries:      1,
		InterBatchDelay: 0,
		RetryBaseDelay:  time.Millisecond,
	}
}

// deterministicEvaluator gives every keyword a stable score so resumed
// and uninterrupted runs can be compared exactly.
func deterministicEvaluator(ctx context.Context, kw string) (scorer.ScoreResult, error) {
	score := float64(len(kw) % 100)
	return scorer.ScoreResult{
		Keyword:  kw,
		Score:    score,
		Category: "test",
		HasData:  score > 0,
		Attempts: 1,
	}, nil
}

func TestRunner_EmptyKeywordList(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	runner, err := NewRunner(fastConfig(), deterministicEvaluator, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if summary.Processed != 0 || len(summary.Results) != 0 {
		t.Errorf("expected empty result set, got processed=%d results=%d", summary.Processed, len(summary.Results))
	}
	if store.Flushes() != 0 {
		t.Errorf("no batches means no flushes, got %d", store.Flushes())
	}
	if runner.State() != StateCompleted {
		t.Errorf("state = %v, want completed", runner.State())
	}
}

func TestRunner_ScenarioTwoBatches(t *testing.T) {
	keywords := []string{"install docker", "random xyz term", "linux commands"}

	store := checkpoint.NewMemoryStore()
	runner, err := NewRunner(fastConfig(), ScorerEvaluator(scorer.NewTrendScorer(7)), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sink := &recordingSink{}
	runner.SetEventSink(sink)

	summary, err := runner.Run(context.Background(), keywords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Batches != 2 {
		t.Errorf("expected 2 batches, got %d", summary.Batches)
	}
	if len(sink.batchSizes) != 2 || sink.batchSizes[0] != 2 || sink.batchSizes[1] != 1 {
		t.Errorf("batch sizes = %v, want [2 1]", sink.batchSizes)
	}
	if store.Flushes() != 2 {
		t.Errorf("expected a flush per batch, got %d", store.Flushes())
	}

	scores := make(map[string]float64, len(summary.Results))
	for _, r := range summary.Results {
		scores[r.Keyword] = r.Score
	}
	if scores["install docker"] <= scores["random xyz term"] {
		t.Errorf("install docker (%.1f) should outscore random xyz term (%.1f)", scores["install docker"], scores["random xyz term"])
	}
	if scores["linux commands"] <= scores["random xyz term"] {
		t.Errorf("linux commands (%.1f) should outscore random xyz term (%.1f)", scores["linux commands"], scores["random xyz term"])
	}
}

func TestRunner_ResumeAfterInterrupt(t *testing.T) {
	keywords := []string{"alpha", "bravo kw", "charlie keyword", "delta"}

	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	// First run: cancel right after the first batch flushes.
	ctx, cancel := context.WithCancel(context.Background())
	store := checkpoint.NewCSVStore(path)
	runner, err := NewRunner(fastConfig(), deterministicEvaluator, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runner.SetEventSink(&cancelAfterFirstBatch{cancel: cancel})

	_, err = runner.Run(ctx, keywords)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if runner.State() != StateCancelled {
		t.Errorf("state = %v, want cancelled", runner.State())
	}

	flushed, err := checkpoint.NewCSVStore(path).LoadExisting(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flushed) != 2 {
		t.Fatalf("expected exactly the first batch flushed, got %d records", len(flushed))
	}

	// Second run resumes and completes the rest.
	resumed, err := NewRunner(fastConfig(), deterministicEvaluator, checkpoint.NewCSVStore(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, err := resumed.Run(context.Background(), keywords)
	if err != nil {
		t.Fatalf("resume run failed: %v", err)
	}
	if summary.Skipped != 2 {
		t.Errorf("expected 2 skipped on resume, got %d", summary.Skipped)
	}
	if summary.Processed != 2 {
		t.Errorf("expected 2 processed on resume, got %d", summary.Processed)
	}

	// The final result set matches an uninterrupted run.
	uninterruptedStore := checkpoint.NewMemoryStore()
	uninterrupted, err := NewRunner(fastConfig(), deterministicEvaluator, uninterruptedStore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reference, err := uninterrupted.Run(context.Background(), keywords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sameResultSet(summary.Results, reference.Results) {
		t.Errorf("resumed result set differs from uninterrupted run:\n%v\nvs\n%v", summary.Results, reference.Results)
	}
}

func TestRunner_PermanentSkipOfFailedKeywords(t *testing.T) {
	failing := func(ctx context.Context, kw string) (scorer.ScoreResult, error) {
		if kw == "broken" {
			return scorer.ScoreResult{}, errors.New("no data upstream")
		}
		return deterministicEvaluator(ctx, kw)
	}

	store := checkpoint.NewMemoryStore()
	runner, err := NewRunner(fastConfig(), failing, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := runner.Run(context.Background(), []string{"broken", "fine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", first.Failed)
	}
	if len(first.FailedKeywords) != 1 || first.FailedKeywords[0] != "broken" {
		t.Errorf("failed keywords = %v, want [broken]", first.FailedKeywords)
	}

	// Default policy: the failed keyword stays skipped on resume.
	again, err := mustRunner(t, fastConfig(), failing, store).Run(context.Background(), []string{"broken", "fine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Processed != 0 || again.Skipped != 2 {
		t.Errorf("permanent-skip: processed=%d skipped=%d, want 0/2", again.Processed, again.Skipped)
	}

	// RetryFailed reverses the policy for failed records only.
	cfg := fastConfig()
	cfg.RetryFailed = true
	retried, err := mustRunner(t, cfg, failing, store).Run(context.Background(), []string{"broken", "fine"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retried.Processed != 1 || retried.Skipped != 1 {
		t.Errorf("retry-failed: processed=%d skipped=%d, want 1/1", retried.Processed, retried.Skipped)
	}
}

func TestRunner_PersistenceErrorIsFatal(t *testing.T) {
	runner, err := NewRunner(fastConfig(), deterministicEvaluator, &failingStore{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = runner.Run(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected persistence failure to abort the run")
	}
	var perr *checkpoint.PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("expected PersistenceError, got %T: %v", err, err)
	}
}

func TestRunner_InvalidConfig(t *testing.T) {
	bad := []Config{
		{BatchSize: 0, MaxConcurrent: 1, MaxRetries: 1},
		{BatchSize: 10, MaxConcurrent: 0, MaxRetries: 1},
		{BatchSize: 10, MaxConcurrent: 1, MaxRetries: 0},
		{BatchSize: 10, MaxConcurrent: 1, MaxRetries: 1, InterBatchDelay: -time.Second},
	}
	for i, cfg := range bad {
		_, err := NewRunner(cfg, deterministicEvaluator, checkpoint.NewMemoryStore())
		if err == nil {
			t.Errorf("config %d: expected validation error", i)
			continue
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("config %d: expected ConfigError, got %T", i, err)
		}
	}
}

func mustRunner(t *testing.T, cfg Config, eval Evaluator, store checkpoint.Store) *Runner {
	t.Helper()
	runner, err := NewRunner(cfg, eval, store)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	return runner
}

func sameResultSet(a, b []scorer.ScoreResult) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(r scorer.ScoreResult) string { return r.Keyword }
	as := append([]scorer.ScoreResult(nil), a...)
	bs := append([]scorer.ScoreResult(nil), b...)
	sort.Slice(as, func(i, j int) bool { return key(as[i]) < key(as[j]) })
	sort.Slice(bs, func(i, j int) bool { return key(bs[i]) < key(bs[j]) })
	for i := range as {
		if as[i].Keyword != bs[i].Keyword || as[i].Score != bs[i].Score {
			return false
		}
	}
	return true
}

type recordingSink struct {
	batchSizes []int
}

func (s *recordingSink) BatchStarted(batch, totalBatches, size int) {
	s.batchSizes = append(s.batchSizes, size)
}
func (s *recordingSink) BatchCompleted(batch, totalBatches int, outcomes []Outcome, elapsed time.Duration) {
}
func (s *recordingSink) RunCompleted(summary Summary) {}

type cancelAfterFirstBatch struct {
	cancel context.CancelFunc
}

func (s *cancelAfterFirstBatch) BatchStarted(batch, totalBatches, size int) {}
func (s *cancelAfterFirstBatch) BatchCompleted(batch, totalBatches int, outcomes []Outcome, elapsed time.Duration) {
	if batch == 1 {
		s.cancel()
	}
}
func (s *cancelAfterFirstBatch) RunCompleted(summary Summary) {}

type failingStore struct{}

func (f *failingStore) LoadExisting(ctx context.Context) ([]scorer.ScoreResult, error) {
	return nil, nil
}

func (f *failingStore) Flush(ctx context.Context, results []scorer.ScoreResult) error {
	return &checkpoint.PersistenceError{Op: "flush", Path: "/dev/full", Err: errors.New("disk full")}
}
