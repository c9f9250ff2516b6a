// Package main is the entry point for the Netron configurator server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bbernstein/lacylights-netron/internal/api"
	"github.com/bbernstein/lacylights-netron/internal/config"
	"github.com/bbernstein/lacylights-netron/internal/database"
	"github.com/bbernstein/lacylights-netron/internal/database/repositories"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/feedback"
	"github.com/bbernstein/lacylights-netron/internal/services/forms"
	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
	"github.com/bbernstein/lacylights-netron/internal/services/status"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// deviceTransport is what the server needs from either the device client or
// the fixture directory.
type deviceTransport interface {
	GetJSON(ctx context.Context, name string) (json.RawMessage, error)
	GetManyJSON(ctx context.Context, names []string) ([]json.RawMessage, error)
	PostForm(ctx context.Context, endpoint string, form transport.Form) (json.RawMessage, error)
}

func main() {
	// Load .env file if present
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := buildLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	printBanner(cfg)

	docs, err := config.LoadDocuments(cfg.DocumentsFile)
	if err != nil {
		logger.Fatal("failed to load documents file", zap.Error(err))
	}

	conn := buildTransport(cfg, logger)
	events := pubsub.New()

	state := device.NewAggregator(conn, docs.Names, events, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.DeviceTimeout*time.Duration(cfg.DeviceRetryCount+2))
	if _, err := state.Load(loadCtx); err != nil {
		// The API reports 503 until a reload succeeds.
		logger.Warn("initial device load failed", zap.Error(err))
	}
	cancelLoad()

	tracker := feedback.NewTracker(cfg.FeedbackDuration, events, logger)
	defer tracker.Close()

	formService := forms.NewService(state, conn, tracker, docs.Endpoints, logger)

	poller := status.NewPoller(state, conn, cfg.PollInterval, events, logger)
	poller.Start()

	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
		Debug:       cfg.IsDevelopment() && cfg.LogLevel == "debug",
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	server := api.NewServer(api.Options{
		State:       state,
		Forms:       formService,
		Feedback:    tracker,
		Preferences: repositories.NewPreferenceRepository(db),
		Events:      events,
		Version:     Version,
		CORSOrigins: []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		Debug:       cfg.IsDevelopment() && cfg.LogLevel == "debug",
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

// buildTransport returns the device client, or the fixture directory when
// one is configured.
func buildTransport(cfg *config.Config, logger *zap.Logger) deviceTransport {
	if cfg.DeviceFixtures != "" {
		logger.Info("serving device documents from fixtures", zap.String("dir", cfg.DeviceFixtures))
		return transport.NewFixtures(cfg.DeviceFixtures, logger)
	}
	return transport.NewClient(transport.Options{
		BaseURL:    cfg.DeviceURL,
		Timeout:    cfg.DeviceTimeout,
		RetryCount: cfg.DeviceRetryCount,
	}, logger)
}

// buildLogger creates the console logger at the configured level.
func buildLogger(cfg *config.Config) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	if cfg.NonInteractive {
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.DisableStacktrace = true
	logConfig.Level.SetLevel(parseLevel(cfg.LogLevel))
	return zap.Must(logConfig.Build())
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	target := cfg.DeviceURL
	if cfg.DeviceFixtures != "" {
		target = "fixtures " + cfg.DeviceFixtures
	}
	fmt.Println("============================================")
	fmt.Println("  Netron Configurator Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Device:      %s\n", target)
	fmt.Println("============================================")
}
