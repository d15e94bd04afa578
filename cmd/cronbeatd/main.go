package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/cronbeat/cronbeat/internal/api"
	"github.com/cronbeat/cronbeat/internal/config"
	"github.com/cronbeat/cronbeat/internal/enqueue"
	"github.com/cronbeat/cronbeat/internal/metrics"
	"github.com/cronbeat/cronbeat/internal/natsq"
	"github.com/cronbeat/cronbeat/internal/registry"
	"github.com/cronbeat/cronbeat/internal/scheduler"
	"github.com/cronbeat/cronbeat/internal/server"
)

const version = "0.3.0"

func main() {
	setupLogger()

	cfg := config.Load()
	replicaID := "cronbeat-" + uuid.NewString()
	slog.Info("starting scheduler replica",
		"replica_id", replicaID,
		"tick_period", cfg.TickPeriod.String(),
		"missed_jobs_window", cfg.MissedJobsWindow.String(),
	)

	// Load-time validation: invalid cron syntax, unknown timezones and
	// duplicate names are fatal before the loop starts.
	schedules, err := config.LoadSchedules(cfg.SchedulesFile)
	if err != nil {
		slog.Error("failed to load schedules", "file", cfg.SchedulesFile, "error", err)
		os.Exit(1)
	}
	reg, err := registry.New(schedules)
	if err != nil {
		slog.Error("failed to validate schedules", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded schedules", "count", reg.Len(), "file", cfg.SchedulesFile)

	store, err := natsq.Connect(cfg.NATSURLs, cfg.MissedJobsWindow, cfg.StoreTimeout)
	if err != nil {
		slog.Error("failed to connect to store", "urls", cfg.NATSURLs, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("connected to store", "url", store.ConnectedURL())

	metrics.Init(version, replicaID)

	sched := scheduler.New(scheduler.Config{
		Registry:         reg,
		Enqueuer:         enqueue.New(store, replicaID),
		TickPeriod:       cfg.TickPeriod,
		MissedJobsWindow: cfg.MissedJobsWindow,
		MaxParallel:      cfg.MaxParallel,
		Epochs:           store,
	})
	sched.Start()
	defer sched.Stop()

	// Admin HTTP server: health, metrics, schedule listing.
	handler := api.NewHandler(reg, store, replicaID)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		slog.Info("admin server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("admin server error", "error", err)
			os.Exit(1)
		}
	}()

	// gRPC health service.
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("cronbeat.v1.Scheduler", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			slog.Error("failed to listen for gRPC", "port", cfg.GRPCPort, "error", err)
			os.Exit(1)
		}
		slog.Info("gRPC health server listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-sched.Fatal():
		// Authentication or configuration failure: exiting beats running a
		// scheduler that cannot trust its view of the store.
		slog.Error("permanent store error", "error", err)
		healthSrv.SetServingStatus("cronbeat.v1.Scheduler", healthpb.HealthCheckResponse_NOT_SERVING)
		sched.Stop()
		grpcServer.Stop()
		srv.Close()
		store.Close()
		os.Exit(1)
	}

	// In-flight enqueue transactions complete before exit.
	sched.Stop()
	grpcServer.GracefulStop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("admin server shutdown error", "error", err)
	}

	slog.Info("scheduler stopped")
}

// setupLogger installs the default JSON logger. LOG_LEVEL selects the
// level, LOG_FORMAT=text switches to the development handler.
func setupLogger() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
