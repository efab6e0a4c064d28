package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/config"
	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/db/connect"
	logpkg "github.com/kailas-cloud/searchbridge/internal/logger"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
	chiTransport "github.com/kailas-cloud/searchbridge/internal/transport/chi"
	"github.com/kailas-cloud/searchbridge/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/searchbridge/internal/usecase/health"
	"github.com/kailas-cloud/searchbridge/internal/version"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API against the configured engine",
		Long: `Run the HTTP API. Configuration is read from --config, or from
config/$ENV.yaml when no path is given (ENV defaults to "local").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := config.GetEnv()

			var (
				cfg config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load(env)
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, env, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

// serve is the composition root: engine, services, router, HTTP server.
func serve(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting searchbridge API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.Strings("engine_addrs", cfg.Engine.Addrs),
	)

	engine, err := connect.Open(connect.Config{
		Driver:          cfg.Engine.Driver,
		Addrs:           cfg.Engine.Addrs,
		Username:        cfg.Engine.Username,
		Password:        cfg.Engine.Password,
		InsecureSkipTLS: cfg.Engine.InsecureSkipTLS,
		MaxRetries:      cfg.Engine.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("create engine client: %w", err)
	}

	if err := engine.WaitForReady(ctx, time.Duration(cfg.Engine.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("engine not ready: %w", err)
	}
	logger.Info("Connected to search engine")

	metrics.RegisterEngineMetrics()
	instrumented := backend.NewInstrumentedEngine(engine, cfg.Engine.Driver, logger)

	svc := backend.New(instrumented, logger, backend.Options{
		IndexPrefix: cfg.Index.Prefix,
		Fuzziness:   cfg.Search.Fuzziness,
		Settings: db.IndexSettings{
			Shards:          cfg.Index.Shards,
			Replicas:        cfg.Index.Replicas,
			RefreshInterval: cfg.Index.RefreshInterval,
		},
	})
	health := healthuc.New(map[string]healthuc.EnginePinger{"engine": instrumented})

	server := chiTransport.NewServer(svc, health, logger).WithDefaultLimit(cfg.Search.DefaultLimit)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
