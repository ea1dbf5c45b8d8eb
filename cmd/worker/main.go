package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinHW299/crewai/internal/bootstrap"
	"github.com/martinHW299/crewai/internal/config"
	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/observability/logging"
	"github.com/martinHW299/crewai/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("analysis-worker", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewAnalyzerMetrics("analysis-worker")
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: m.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	app, err := bootstrap.New(ctx, cfg, logger, m)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	runTimeout := time.Duration(cfg.RunTimeoutSeconds) * time.Second

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeRunRequested(ctx, func(handlerCtx context.Context, rootID string) error {
		runCtx, cancel := context.WithTimeout(handlerCtx, runTimeout)
		defer cancel()

		started := time.Now()
		report, err := app.RunUC.ExecuteRun(runCtx, rootID)
		if err != nil {
			m.RunFinished(domain.RunStatusFailed, time.Since(started), 0)
			return err
		}
		status := domain.RunStatusCompleted
		if report.Cancelled {
			status = domain.RunStatusCancelled
		}
		m.RunFinished(status, time.Since(started), report.Summary.AggregateCompleteness)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
