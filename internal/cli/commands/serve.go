package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chatlens/internal/logging"
	"github.com/ccollicutt/chatlens/internal/server"
	"github.com/ccollicutt/chatlens/pkg/config"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 15 * time.Second

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Settings string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Start a stateless HTTP API. Exports are uploaded as the request body.

Routes:
  POST /v1/analyze?user=&tables=&records=   full report as JSON
  POST /v1/participants                     participant list
  POST /v1/detect                           grammar detection
  GET  /healthz                             liveness
  GET  /metrics                             prometheus metrics

Settings are read from flags, CHATLENS_* environment variables (for example
CHATLENS_ADDR, CHATLENS_MAX_BODY_BYTES) and an optional settings file,
chatlens-server.yaml in the working directory unless --settings is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Settings, "settings", "", "Server settings file (yaml, json or toml)")
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().StringP("config", "c", "", "Analysis config file (YAML)")
	cmd.Flags().Int64("max-body-bytes", config.DefaultMaxBodyBytes, "Maximum upload size in bytes")
	cmd.Flags().Duration("read-timeout", config.DefaultReadTimeout, "HTTP read timeout")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	settings, err := config.LoadServeSettings(opts.Settings, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	log, err := logging.New(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	defer func() { _ = log.Sync() }()
	SetLogger(log)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadOrDefault(ctx, settings.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	srv := &http.Server{
		Addr: settings.Addr,
		Handler: server.New(cfg,
			server.WithLogger(log),
			server.WithMaxBodyBytes(settings.MaxBodyBytes),
		).Router(),
		ReadTimeout:       settings.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			zap.String("addr", settings.Addr),
			zap.Int64("max_body_bytes", settings.MaxBodyBytes),
			zap.String("config", settings.Config),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
