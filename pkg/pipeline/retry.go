package pipeline

import (
	"context"
	"time"

	"trendcheck-go/pkg/scorer"
)

// maxBackoffUnits caps the exponential delay at 60 base-delay units.
const maxBackoffUnits = 60

// Evaluator runs one scoring attempt for a keyword. A non-nil error
// marks the attempt as failed and eligible for retry.
type Evaluator func(ctx context.Context, kw string) (scorer.ScoreResult, error)

// ScorerEvaluator adapts a Scorer into an Evaluator.
func ScorerEvaluator(s scorer.Scorer) Evaluator {
	return func(ctx context.Context, kw string) (scorer.ScoreResult, error) {
		return s.Score(kw), nil
	}
}

// Outcome is the terminal result of one keyword's evaluation: either a
// successful ScoreResult or a failure record after exhausted attempts.
type Outcome struct {
	Result scorer.ScoreResult
	Failed bool
}

// RetryController wraps an evaluation with a bounded number of attempts
// and exponential backoff between them.
type RetryController struct {
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetryController creates a controller. maxAttempts = 1 means no
// retry: the first error becomes a failure record immediately, with no
// sleep.
func NewRetryController(maxAttempts int, baseDelay time.Duration) (*RetryController, error) {
	if maxAttempts <= 0 {
		return nil, &ConfigError{Field: "max_retries", Reason: "must be positive"}
	}
	return &RetryController{maxAttempts: maxAttempts, baseDelay: baseDelay}, nil
}

// Do evaluates kw until success or attempts run out. The returned error
// is non-nil only on context cancellation, in which case the evaluation
// was abandoned and no terminal outcome exists.
func (rc *RetryController) Do(ctx context.Context, kw string, eval Evaluator) (Outcome, error) {
	var lastErr error

	for attempt := 0; attempt < rc.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		default:
		}

		result, err := eval(ctx, kw)
		if err == nil {
			result.Attempts = attempt + 1
			return Outcome{Result: result}, nil
		}
		lastErr = err

		if attempt == rc.maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-time.After(rc.backoff(attempt)):
		}
	}

	return Outcome{
		Result: scorer.Failure(kw, rc.maxAttempts, lastErr.Error()),
		Failed: true,
	}, nil
}

// backoff returns base * 2^attempt, capped at maxBackoffUnits bases.
func (rc *RetryController) backoff(attempt int) time.Duration {
	units := int64(1) << uint(attempt)
	if units > maxBackoffUnits {
		units = maxBackoffUnits
	}
	return time.Duration(units) * rc.baseDelay
}
