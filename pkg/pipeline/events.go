package pipeline

import (
	"time"

	"trendcheck-go/pkg/logger"
)

// EventSink receives pipeline lifecycle events. Calls happen on the
// coordinating goroutine, in batch order; implementations should return
// quickly.
type EventSink interface {
	BatchStarted(batch, totalBatches, size int)
	BatchCompleted(batch, totalBatches int, outcomes []Outcome, elapsed time.Duration)
	RunCompleted(summary Summary)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) BatchStarted(batch, totalBatches, size int) {}
func (NopSink) BatchCompleted(batch, totalBatches int, outcomes []Outcome, elapsed time.Duration) {
}
func (NopSink) RunCompleted(summary Summary) {}

// LogSink reports batch progress and the final summary through the
// structured logger.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.GetLogger().Component("pipeline")}
}

func (s *LogSink) BatchStarted(batch, totalBatches, size int) {
	s.log.WithFields(map[string]interface{}{
		"batch":         batch,
		"total_batches": totalBatches,
		"size":          size,
	}).Info("Processing batch")
}

func (s *LogSink) BatchCompleted(batch, totalBatches int, outcomes []Outcome, elapsed time.Duration) {
	failed := 0
	for _, o := range outcomes {
		if o.Failed {
			failed++
		}
	}
	s.log.WithFields(map[string]interface{}{
		"batch":         batch,
		"total_batches": totalBatches,
		"results":       len(outcomes),
		"failed":        failed,
		"elapsed_ms":    elapsed.Milliseconds(),
	}).Info("Batch completed")
}

func (s *LogSink) RunCompleted(summary Summary) {
	s.log.WithFields(map[string]interface{}{
		"total":     summary.Total,
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"batches":   summary.Batches,
		"elapsed":   summary.Elapsed.Round(time.Millisecond).String(),
	}).Info("Run completed")
}
