package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"trendcheck-go/internal/config"
	"trendcheck-go/internal/handler"
	"trendcheck-go/internal/service"
	"trendcheck-go/pkg/logger"
	"trendcheck-go/pkg/scorer"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "Configuration file path")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	manager := config.NewManager()
	cfg, err := manager.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetLogger(log)
	logger.SetGlobalLogger(log)

	var heuristic *scorer.HeuristicScorer
	switch cfg.Scorer.Profile {
	case "priority":
		heuristic = scorer.NewPriorityScorer(cfg.Scorer.Seed)
	default:
		heuristic = scorer.NewTrendScorer(cfg.Scorer.Seed)
	}

	controller := handler.NewController(
		service.NewGeneratorService(),
		service.NewScoringService(heuristic),
	)

	app := fiber.New(fiber.Config{
		AppName:      "trendcheck-go",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	controller.Register(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server listening")
		errCh <- app.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}
