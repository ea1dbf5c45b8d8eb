package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinHW299/crewai/internal/bootstrap"
	"github.com/martinHW299/crewai/internal/config"
	"github.com/martinHW299/crewai/internal/infrastructure/queue/nats"
	"github.com/martinHW299/crewai/internal/observability/logging"
)

func main() {
	rootID := flag.String("root", "", "root container id to analyze")
	local := flag.Bool("local", false, "run the pipeline in-process instead of enqueueing")
	outDir := flag.String("out", "", "report output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	if *rootID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	logger := logging.NewJSONLogger("analyzer", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*local {
		queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatalf("connect queue: %v", err)
		}
		defer queue.Close()

		publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := queue.PublishRunRequested(publishCtx, *rootID); err != nil {
			log.Fatalf("enqueue run: %v", err)
		}
		logger.Info("run enqueued", "root_id", *rootID, "subject", cfg.NATSSubject)
		return
	}

	app, err := bootstrap.NewLocal(cfg, logger, nil)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.RunTimeoutSeconds)*time.Second)
	defer cancel()

	report, err := app.Analyzer.Analyze(runCtx, *rootID)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	paths, err := app.Writer.WriteReport(context.Background(), report)
	if err != nil {
		log.Fatalf("write report: %v", err)
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	logger.Info("analysis complete",
		"run_id", report.RunID,
		"aggregate_completeness", report.Summary.AggregateCompleteness,
		"critical_gaps", report.Summary.CriticalGaps,
		"cancelled", report.Cancelled,
	)
}
