// Package server boots the full application: config, MongoDB, Redis,
// storage, queue workers, the live feed, the gRPC health service and
// the HTTP API, then shuts everything down in order on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vastra/app/feed"
	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/grpcserver"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// Start runs the server until the process receives SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelBoot()

	if err := database.Connect(bootCtx); err != nil {
		return err
	}

	var mongoLog *logger.MongoHandler
	if config.LogMongo() {
		mongoLog = logger.NewMongoHandler(database.Collection("logs"))
		logger.SetHandler(logger.NewMultiHandler(
			slog.NewTextHandler(os.Stdout, nil),
			mongoLog,
		))
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching and queue fall back to memory", "error", err)
	}
	storage.Connect()

	jobs.RegisterJobs()
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	queue.StartWorkers(workerCtx, config.QueueWorkers())

	feed.Start()

	grpcSrv, grpcLis, err := grpcserver.Start(config.GRPCPort(), database.Ping)
	if err != nil {
		logger.Warn("grpc health service not started", "error", err)
	} else {
		logger.Info("grpc health service listening", "addr", grpcLis.Addr().String())
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           routes.New().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vastra api listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		stopWorkers()
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	stopWorkers()
	if mongoLog != nil {
		mongoLog.Close()
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect", "error", err)
	}

	logger.Info("bye 👋")
	return nil
}
