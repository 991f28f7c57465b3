package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/powerparts/internal/catalog"
	"github.com/HerbHall/powerparts/internal/server"
	"github.com/HerbHall/powerparts/internal/version"
)

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	settings := loadSettings(*configPath)
	logger := newLogger(settings.Log.Development)
	defer logger.Sync()

	logger.Info("powerparts server starting", zap.String("version", version.Short()))

	// The server always caches so each request reuses one snapshot.
	engine := newEngine(settings.Catalog, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := catalog.Warm(ctx, engine.Loader(), engine.Datasets(), logger); err != nil {
		cancel()
		logger.Fatal("failed to load catalogs", zap.Error(err))
	}
	cancel()

	handler := catalog.NewHandler(engine, logger, settings.Catalog.DisplayCount)
	srv := server.New(server.Options{
		Addr:      settings.Server.Addr(),
		RateLimit: settings.Server.RateLimit,
		Burst:     settings.Server.Burst,
	}, logger, handler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("powerparts server ready", zap.String("addr", settings.Server.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("powerparts server stopped")
}
