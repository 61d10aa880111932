package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/photofeed/internal/config"
	"github.com/prn-tf/photofeed/internal/handler"
	"github.com/prn-tf/photofeed/internal/logging"
	"github.com/prn-tf/photofeed/internal/metrics"
	"github.com/prn-tf/photofeed/internal/repository/memory"
	"github.com/prn-tf/photofeed/internal/service"
	"github.com/prn-tf/photofeed/internal/storage"
	"github.com/prn-tf/photofeed/internal/storage/filesystem"
	"github.com/prn-tf/photofeed/internal/storage/s3"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until interrupted.

Configuration is read from the config file and PHOTOFEED_* environment
variables, e.g. PHOTOFEED_STORAGE_DATA_DIR=/var/lib/photofeed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override server.port")

	return cmd
}

// serve wires the application together and blocks until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting photofeed server")

	backend, err := newBackend(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	repos := memory.NewRepositories()
	users := service.NewUserService(repos.User, m, logger)
	posts := service.NewPostService(repos.Post, users, m, logger)
	images := service.NewImageService(repos.Image, posts, backend, m, logger)

	router := handler.NewRouter(handler.RouterConfig{
		UserHandler:  handler.NewUserHandler(users, logger),
		PostHandler:  handler.NewPostHandler(posts, logger),
		ImageHandler: handler.NewImageHandler(images, cfg.Server.MaxUploadSize, logger),
		Metrics:      m,
		MetricsPath:  cfg.Metrics.Path,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
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

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newBackend builds the configured image storage backend.
func newBackend(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return s3.New(ctx, cfg.S3, logger)
	default:
		return filesystem.New(cfg.DataDir, logger)
	}
}
