package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/po-extract/internal/async"
	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/ingest"
	"github.com/joseph-ayodele/po-extract/internal/parser"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
	repo "github.com/joseph-ayodele/po-extract/internal/repository"
	svc "github.com/joseph-ayodele/po-extract/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	runs := repo.NewParseRunRepository(db, logger)

	processor, err := pipeline.FromConfig(cfg, runs, logger)
	if err != nil {
		logger.Error("failed to build processor", "error", err)
		os.Exit(1)
	}

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.QueueSize),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	if len(cfg.Ingest.WatchDirs) > 0 {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       cfg.Ingest.WatchDirs,
			InitialScan: true,
			SkipHidden:  true,
			Debounce:    cfg.Ingest.Debounce,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to start watcher", "dirs", cfg.Ingest.WatchDirs, "error", err)
			os.Exit(1)
		}
		go feedQueue(ctx, events, errs, queue, logger)
		logger.Info("watching directories", "dirs", cfg.Ingest.WatchDirs, "debounce", cfg.Ingest.Debounce)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	extraction := svc.NewExtractionService(parser.NewEngine(logger), processor, runs, cfg.Extract.MaxFileBytes, logger)
	grpcServer, healthServer := svc.NewGRPCServer(extraction, logger)

	logger.Info("poextractd listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Queue.ProcessTimeout)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}

// feedQueue turns watcher events into queue jobs until the watcher closes.
func feedQueue(ctx context.Context, events <-chan string, errs <-chan error, queue async.Queue, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return
			}
			jobCtx, traceID := common.EnsureRequestID(ctx)
			err := queue.Enqueue(jobCtx, async.Job{Path: path, SubmittedAt: time.Now(), TraceID: traceID})
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, async.ErrQueueClosed) {
				logger.Warn("failed to enqueue file", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher reported error", "error", err)
		}
	}
}
