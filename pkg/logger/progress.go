package logger

import (
	"fmt"
	"sync"
	"time"
)

// BatchProgress reports progress of a batched keyword run: how many
// keywords have a terminal result out of the total, plus a rough ETA
// derived from elapsed time per processed keyword.
type BatchProgress struct {
	mu          sync.RWMutex
	total       int
	current     int
	description string
	startTime   time.Time
	lastUpdate  time.Time
	logger      *Logger
}

func NewBatchProgress(total int, description string) *BatchProgress {
	return &BatchProgress{
		total:       total,
		description: description,
		startTime:   time.Now(),
		lastUpdate:  time.Now(),
		logger:      GetLogger().Component("progress"),
	}
}

// Add increments the processed-keyword counter. Progress is logged at
// most every 5 seconds, and always when the run completes.
func (bp *BatchProgress) Add(increment int) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.current += increment
	now := time.Now()
	if now.Sub(bp.lastUpdate) >= 5*time.Second || bp.current >= bp.total {
		bp.report()
		bp.lastUpdate = now
	}
}

// Complete forces a final progress report.
func (bp *BatchProgress) Complete() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.current = bp.total
	bp.report()
}

// report logs current progress; caller must hold the lock.
func (bp *BatchProgress) report() {
	if bp.total == 0 {
		return
	}
	percentage := float64(bp.current) / float64(bp.total) * 100
	elapsed := time.Since(bp.startTime)

	var eta string
	if bp.current > 0 && bp.current < bp.total {
		perKeyword := elapsed / time.Duration(bp.current)
		remaining := time.Duration(bp.total-bp.current) * perKeyword
		eta = fmt.Sprintf(" (ETA: %s)", remaining.Round(time.Second))
	}

	bp.logger.WithFields(map[string]interface{}{
		"current": bp.current,
		"total":   bp.total,
		"elapsed": elapsed.Round(time.Second).String(),
	}).Info(fmt.Sprintf("%s: %d/%d (%.1f%%)%s", bp.description, bp.current, bp.total, percentage, eta))
}

// Progress returns the current counters.
func (bp *BatchProgress) Progress() (current, total int, percentage float64) {
	bp.mu.RLock()
	defer bp.mu.RUnlock()

	if bp.total == 0 {
		return bp.current, bp.total, 0
	}
	return bp.current, bp.total, float64(bp.current) / float64(bp.total) * 100
}
