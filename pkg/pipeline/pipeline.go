package pipeline

import (
	"context"
	"sync"
	"time"

	"trendcheck-go/pkg/checkpoint"
	"trendcheck-go/pkg/keyword"
	"trendcheck-go/pkg/logger"
	"trendcheck-go/pkg/scorer"
)

// Config holds the pipeline knobs. Validate rejects anything that would
// make the run unsafe before any work starts.
type Config struct {
	BatchSize       int           `mapstructure:"batch_size"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	MaxRetries      int           `mapstructure:"max_retries"`
	InterBatchDelay time.Duration `mapstructure:"inter_batch_delay"`
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay"`

	// RetryFailed reverses the default resume policy: keywords whose
	// prior record is a failure get rescored instead of skipped.
	RetryFailed bool `mapstructure:"retry_failed"`
}

func DefaultConfig() Config {
	return Config{
		BatchSize:       50,
		MaxConcurrent:   5,
		MaxRetries:      3,
		InterBatchDelay: 3 * time.Second,
		RetryBaseDelay:  time.Second,
	}
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return &ConfigError{Field: "batch_size", Reason: "must be positive"}
	}
	if c.MaxConcurrent <= 0 {
		return &ConfigError{Field: "max_concurrent", Reason: "must be positive"}
	}
	if c.MaxRetries <= 0 {
		return &ConfigError{Field: "max_retries", Reason: "must be positive"}
	}
	if c.InterBatchDelay < 0 {
		return &ConfigError{Field: "inter_batch_delay", Reason: "must not be negative"}
	}
	return nil
}

// State tracks where a run is in its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateLoading
	StateResuming
	StateFresh
	StateProcessingBatch
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateLoading:
		return "loading"
	case StateResuming:
		return "resuming"
	case StateFresh:
		return "fresh"
	case StateProcessingBatch:
		return "processing_batch"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Summary is the final accounting of a run. Results holds the cumulative
// result set including records carried over from a resumed checkpoint.
type Summary struct {
	Total          int
	Skipped        int
	Processed      int
	Failed         int
	Batches        int
	Elapsed        time.Duration
	Results        []scorer.ScoreResult
	FailedKeywords []string
}

// Runner drives batches strictly sequentially: batch i+1 never starts
// before batch i's checkpoint flush completes. Within a batch the
// executor bounds concurrency. All shared state lives on the
// coordinating goroutine and is updated only at batch boundaries.
type Runner struct {
	cfg    Config
	eval   Evaluator
	store  checkpoint.Store
	events EventSink
	log    *logger.Logger

	mu    sync.RWMutex
	state State
}

func NewRunner(cfg Config, eval Evaluator, store checkpoint.Store) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		eval:   eval,
		store:  store,
		events: NopSink{},
		log:    logger.GetLogger().Component("pipeline"),
		state:  StateNotStarted,
	}, nil
}

// SetEventSink replaces the event sink. Must be called before Run.
func (r *Runner) SetEventSink(sink EventSink) {
	if sink != nil {
		r.events = sink
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run processes all keywords to a terminal result set. Per-keyword
// failures are contained as failure records; only configuration and
// persistence problems escape as errors.
func (r *Runner) Run(ctx context.Context, keywords []string) (*Summary, error) {
	start := time.Now()

	r.setState(StateLoading)
	existing, err := r.store.LoadExisting(ctx)
	if err != nil {
		return nil, err
	}

	pending, skipped := r.filterPending(keywords, existing)
	if len(existing) > 0 {
		r.setState(StateResuming)
		r.log.WithFields(map[string]interface{}{
			"already_processed": len(existing),
			"remaining":         len(pending),
		}).Info("Resuming from existing checkpoint")
	} else {
		r.setState(StateFresh)
	}

	summary := &Summary{
		Total:   len(keywords),
		Skipped: skipped,
		Results: append([]scorer.ScoreResult(nil), existing...),
	}

	if len(pending) == 0 {
		summary.Elapsed = time.Since(start)
		r.setState(StateCompleted)
		r.events.RunCompleted(*summary)
		return summary, nil
	}

	batches, err := Batches(pending, r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	retry, err := NewRetryController(r.cfg.MaxRetries, r.cfg.RetryBaseDelay)
	if err != nil {
		return nil, err
	}
	executor, err := NewExecutor(r.eval, retry, r.cfg.MaxConcurrent)
	if err != nil {
		return nil, err
	}

	progress := logger.NewBatchProgress(len(pending), "Scoring keywords")

	for i, batch := range batches {
		r.setState(StateProcessingBatch)
		r.events.BatchStarted(i+1, len(batches), len(batch))

		batchStart := time.Now()
		outcomes, err := executor.ExecuteBatch(ctx, batch)
		if err != nil {
			// Interrupted: the in-flight batch is discarded, flushed
			// batches stay valid and resumable.
			r.setState(StateCancelled)
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		for _, o := range outcomes {
			summary.Results = append(summary.Results, o.Result)
			summary.Processed++
			if o.Failed {
				summary.Failed++
				summary.FailedKeywords = append(summary.FailedKeywords, o.Result.Keyword)
			}
		}
		summary.Batches++

		if err := r.store.Flush(ctx, summary.Results); err != nil {
			return nil, err
		}

		r.events.BatchCompleted(i+1, len(batches), outcomes, time.Since(batchStart))
		progress.Add(len(batch))

		if i < len(batches)-1 && r.cfg.InterBatchDelay > 0 {
			select {
			case <-ctx.Done():
				r.setState(StateCancelled)
				summary.Elapsed = time.Since(start)
				return summary, ctx.Err()
			case <-time.After(r.cfg.InterBatchDelay):
			}
		}
	}

	summary.Elapsed = time.Since(start)
	r.setState(StateCompleted)
	r.events.RunCompleted(*summary)
	return summary, nil
}

// filterPending drops keywords that already have a checkpoint record.
// By default a prior failure also counts as processed (permanent-skip);
// with RetryFailed set, keywords whose records are all failures go back
// into the pending list.
func (r *Runner) filterPending(keywords []string, existing []scorer.ScoreResult) (pending []string, skipped int) {
	type record struct {
		seen      bool
		succeeded bool
	}
	seen := make(map[string]record, len(existing))
	for _, res := range existing {
		key := keyword.Fold(res.Keyword)
		rec := seen[key]
		rec.seen = true
		if res.Error == "" {
			rec.succeeded = true
		}
		seen[key] = rec
	}

	for _, kw := range keywords {
		rec := seen[keyword.Fold(kw)]
		if rec.seen && (!r.cfg.RetryFailed || rec.succeeded) {
			skipped++
			continue
		}
		pending = append(pending, kw)
	}
	return pending, skipped
}
