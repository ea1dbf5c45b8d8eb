package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/martinHW299/crewai/internal/config"
	"github.com/martinHW299/crewai/internal/core/ports"
	"github.com/martinHW299/crewai/internal/core/usecase"
	"github.com/martinHW299/crewai/internal/infrastructure/extractor"
	"github.com/martinHW299/crewai/internal/infrastructure/llm/ollama"
	"github.com/martinHW299/crewai/internal/infrastructure/queue/nats"
	"github.com/martinHW299/crewai/internal/infrastructure/report"
	"github.com/martinHW299/crewai/internal/infrastructure/repository/postgres"
	"github.com/martinHW299/crewai/internal/infrastructure/resilience"
	"github.com/martinHW299/crewai/internal/infrastructure/store/drivefs"
)

type App struct {
	Config config.Config

	Queue ports.RunQueue
	Repo  ports.RunRepository
	RunUC ports.RunExecutor

	closeFn func()
}

// New wires the full worker dependency graph: postgres, NATS, the local
// document store, extractors, the classification client and the use cases.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, observer usecase.RunObserver) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init run queue: %w", err)
	}

	analyzer, writer, err := buildPipeline(cfg, logger, observer)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	runUC := usecase.NewRunUseCase(analyzer, repo, writer, logger)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,
		RunUC:  runUC,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// LocalApp is the wiring for a one-shot local run: no queue, no database,
// report artifacts only.
type LocalApp struct {
	Config   config.Config
	Analyzer ports.AnalysisRunner
	Writer   ports.ReportWriter
}

func NewLocal(cfg config.Config, logger *slog.Logger, observer usecase.RunObserver) (*LocalApp, error) {
	analyzer, writer, err := buildPipeline(cfg, logger, observer)
	if err != nil {
		return nil, err
	}
	return &LocalApp{Config: cfg, Analyzer: analyzer, Writer: writer}, nil
}

func buildPipeline(cfg config.Config, logger *slog.Logger, observer usecase.RunObserver) (ports.AnalysisRunner, ports.ReportWriter, error) {
	store, err := drivefs.New(cfg.DriveRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("init document store: %w", err)
	}

	dispatcher := extractor.NewDispatcher()

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	client := ollama.New(cfg.OllamaURL, cfg.OllamaModel)
	classifier := ollama.NewClassifier(client, executor)

	params, err := analysisParams(cfg)
	if err != nil {
		return nil, nil, err
	}

	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init report writer: %w", err)
	}

	analyzer := usecase.NewAnalyzeUseCase(store, dispatcher, classifier, params, logger, observer)
	return analyzer, writer, nil
}

func analysisParams(cfg config.Config) (usecase.AnalysisParams, error) {
	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return usecase.AnalysisParams{}, fmt.Errorf("load tuning: %w", err)
	}
	cfg = cfg.ApplyTuning(tuning)

	return usecase.AnalysisParams{
		CriticalThreshold:  cfg.CriticalThreshold,
		HighThreshold:      cfg.HighThreshold,
		DedupSimilarity:    cfg.DedupSimilarity,
		MaxConcurrentCalls: cfg.MaxConcurrentCalls,
		CallsPerMinute:     cfg.CallsPerMinute,
		CallTimeout:        time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		WeightOverrides:    tuning.CategoryWeights,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
