package pipeline

import (
	"context"
	"sync"

	"trendcheck-go/pkg/logger"
)

// Executor evaluates one batch of keywords with a bounded number of
// in-flight evaluations. A failure in one keyword never prevents the
// rest of the batch from completing.
type Executor struct {
	eval          Evaluator
	retry         *RetryController
	maxConcurrent int
	log           *logger.Logger
}

// NewExecutor creates an executor. maxConcurrent = 1 degenerates to
// strictly sequential evaluation within the batch.
func NewExecutor(eval Evaluator, retry *RetryController, maxConcurrent int) (*Executor, error) {
	if maxConcurrent <= 0 {
		return nil, &ConfigError{Field: "max_concurrent", Reason: "must be positive"}
	}
	return &Executor{
		eval:          eval,
		retry:         retry,
		maxConcurrent: maxConcurrent,
		log:           logger.GetLogger().Component("executor"),
	}, nil
}

// ExecuteBatch runs every keyword in the batch to a terminal outcome.
// Outcomes arrive in completion order and are tagged by keyword, not
// position. On context cancellation, in-flight evaluations are waited
// out or abandoned, the collected outcomes so far are returned together
// with the context error, and the caller must not persist them as a
// completed batch.
func (e *Executor) ExecuteBatch(ctx context.Context, batch []string) ([]Outcome, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	sem := make(chan struct{}, e.maxConcurrent)
	outcomeCh := make(chan Outcome, len(batch))
	var wg sync.WaitGroup

	cancelled := false
	for _, kw := range batch {
		select {
		case <-ctx.Done():
			cancelled = true
		case sem <- struct{}{}:
			wg.Add(1)
			go func(kw string) {
				defer wg.Done()
				defer func() { <-sem }()

				outcome, err := e.retry.Do(ctx, kw, e.eval)
				if err != nil {
					// Abandoned by cancellation; no terminal result.
					return
				}
				if outcome.Failed {
					e.log.WithFields(map[string]interface{}{
						"keyword":  kw,
						"attempts": outcome.Result.Attempts,
						"error":    outcome.Result.Error,
					}).Warn("Keyword failed after all retry attempts")
				}
				outcomeCh <- outcome
			}(kw)
		}
		if cancelled {
			break
		}
	}

	wg.Wait()
	close(outcomeCh)

	outcomes := make([]Outcome, 0, len(batch))
	for outcome := range outcomeCh {
		outcomes = append(outcomes, outcome)
	}

	if cancelled || ctx.Err() != nil {
		return outcomes, ctx.Err()
	}
	return outcomes, nil
}
