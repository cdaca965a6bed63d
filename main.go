package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trendcheck-go/pkg/checkpoint"
	"trendcheck-go/pkg/keyword"
	"trendcheck-go/pkg/logger"
	"trendcheck-go/pkg/pipeline"
	"trendcheck-go/pkg/report"
	"trendcheck-go/pkg/scorer"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func main() {
	var (
		keywordsFile  = flag.String("keywords", getEnvOrDefault("KEYWORDS_FILE", ""), "Line-delimited keywords file (env: KEYWORDS_FILE)")
		referenceFile = flag.String("reference", getEnvOrDefault("REFERENCE_FILE", ""), "Optional reference terms file; keywords not containing any term are dropped (env: REFERENCE_FILE)")
		outputFile    = flag.String("output", getEnvOrDefault("OUTPUT_FILE", "trend_results.csv"), "Checkpoint/result CSV file (env: OUTPUT_FILE)")
		profile       = flag.String("profile", getEnvOrDefault("SCORER_PROFILE", "trend"), "Scorer profile: trend or priority (env: SCORER_PROFILE)")
		seed          = flag.Int64("seed", 0, "Jitter seed; 0 uses the current time")
		batchSize     = flag.Int("batch-size", getEnvIntOrDefault("BATCH_SIZE", 50), "Keywords per batch (env: BATCH_SIZE)")
		maxConcurrent = flag.Int("max-concurrent", getEnvIntOrDefault("MAX_CONCURRENT", 5), "Max in-flight evaluations per batch (env: MAX_CONCURRENT)")
		maxRetries    = flag.Int("max-retries", getEnvIntOrDefault("MAX_RETRIES", 3), "Attempts per keyword before a failure record (env: MAX_RETRIES)")
		delay         = flag.Duration("delay", 3*time.Second, "Delay between batches")
		retryFailed   = flag.Bool("retry-failed", false, "On resume, rescore keywords whose prior record was a failure")
		threshold     = flag.Float64("threshold", 10, "Minimum score for the trending report")
		reportDir     = flag.String("report-dir", getEnvOrDefault("REPORT_DIR", ""), "Directory for report artifacts; empty skips reporting (env: REPORT_DIR)")
		yes           = flag.Bool("yes", false, "Skip the confirmation prompt")
		debug         = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", Output: "stdout"})
	logger.SetLogger(log)

	if *keywordsFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -keywords is required (or KEYWORDS_FILE)")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(runOptions{
		keywordsFile:  *keywordsFile,
		referenceFile: *referenceFile,
		outputFile:    *outputFile,
		profile:       *profile,
		seed:          *seed,
		threshold:     *threshold,
		reportDir:     *reportDir,
		skipConfirm:   *yes,
		pipeline: pipeline.Config{
			BatchSize:       *batchSize,
			MaxConcurrent:   *maxConcurrent,
			MaxRetries:      *maxRetries,
			InterBatchDelay: *delay,
			RetryBaseDelay:  time.Second,
			RetryFailed:     *retryFailed,
		},
	}, log); err != nil {
		if errors.Is(err, errDeclined) {
			log.Info("Run cancelled by operator")
			return
		}
		log.WithError(err).Error("Run failed")
		os.Exit(1)
	}
}

var errDeclined = errors.New("operator declined")

type runOptions struct {
	keywordsFile  string
	referenceFile string
	outputFile    string
	profile       string
	seed          int64
	threshold     float64
	reportDir     string
	skipConfirm   bool
	pipeline      pipeline.Config
}

func run(opts runOptions, log *logger.Logger) error {
	if err := opts.pipeline.Validate(); err != nil {
		return err
	}

	keywords, err := keyword.Load(opts.keywordsFile)
	if err != nil {
		return err
	}

	if opts.referenceFile != "" {
		reference, err := keyword.Load(opts.referenceFile)
		if err != nil {
			return err
		}
		keywords = keyword.FilterByReference(keywords, reference)
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var heuristic *scorer.HeuristicScorer
	switch opts.profile {
	case "trend":
		heuristic = scorer.NewTrendScorer(seed)
	case "priority":
		heuristic = scorer.NewPriorityScorer(seed)
	default:
		return &pipeline.ConfigError{Field: "profile", Reason: "must be trend or priority"}
	}

	if !opts.skipConfirm {
		if !confirm(keywords, opts.pipeline) {
			return errDeclined
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Warn("Interrupt received, finishing current work")
		cancel()
	}()

	store := checkpoint.NewCSVStore(opts.outputFile)
	runner, err := pipeline.NewRunner(opts.pipeline, pipeline.ScorerEvaluator(heuristic), store)
	if err != nil {
		return err
	}
	runner.SetEventSink(pipeline.NewLogSink())

	summary, err := runner.Run(ctx, keywords)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.WithFields(map[string]interface{}{
				"processed": summary.Processed,
				"batches":   summary.Batches,
			}).Warn("Run interrupted; flushed batches remain resumable")
		}
		return err
	}

	printSummary(summary, log)

	if opts.reportDir != "" {
		exporter := report.NewExporter(opts.threshold)
		if err := exporter.Export(ctx, summary.Results, opts.reportDir); err != nil {
			return err
		}
	}

	return nil
}

// confirm prints the job size and a duration estimate, then requires an
// explicit y to proceed. Anything else declines with no side effects.
func confirm(keywords []string, cfg pipeline.Config) bool {
	batches := (len(keywords) + cfg.BatchSize - 1) / cfg.BatchSize
	estimated := time.Duration(batches) * (cfg.InterBatchDelay + time.Second)

	fmt.Printf("\nKeywords to process: %d (%d batches of up to %d)\n", len(keywords), batches, cfg.BatchSize)
	fmt.Printf("Estimated duration:  %s\n", estimated.Round(time.Second))
	fmt.Print("\nProceed? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func printSummary(summary *pipeline.Summary, log *logger.Logger) {
	log.WithFields(map[string]interface{}{
		"total":     summary.Total,
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"batches":   summary.Batches,
		"elapsed":   summary.Elapsed.Round(time.Millisecond).String(),
	}).Info("Processing complete")

	if summary.Elapsed > 0 && summary.Processed > 0 {
		rate := float64(summary.Processed) / summary.Elapsed.Minutes()
		log.WithField("keywords_per_minute", fmt.Sprintf("%.1f", rate)).Info("Processing rate")
	}

	for _, kw := range summary.FailedKeywords {
		log.WithField("keyword", kw).Warn("Keyword failed after all retries")
	}
}
