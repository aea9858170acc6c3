package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"svcreg/internal/app"
	"svcreg/internal/config"
	"svcreg/internal/server"
	"svcreg/pkg/logging"

	"github.com/spf13/cobra"
)

// serveConfigPath is the path to the YAML configuration file. A missing file
// is fine; defaults apply.
var serveConfigPath string

// serveWarmUp eagerly initializes every service at startup instead of
// waiting for first use.
var serveWarmUp bool

// serveAddr overrides the listen address from the configuration file.
var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo application and expose the registry over HTTP",
	Long: `Starts the demo application on top of the service registry and serves
its readiness surface over HTTP.

Services stay uninitialized until the first request that needs them; the
first hit on a guarded endpoint initializes the whole dependency chain
beneath it, in dependency order. Use --warmup to initialize everything at
startup instead.

Endpoints:
  /healthz           aggregate lifecycle state of all services
  /readyz/{service}  readiness of one service
  /plan/{service}    initialization order for one target
  /users/{id}        demo endpoint backed by the guarded users service
  /users/me          demo endpoint resolving the bearer token`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	logging.Init(logging.ParseLevel(cfg.Log.Level), logging.LogFormat(cfg.Log.Format), os.Stderr)

	application, err := app.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("failed to bootstrap application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWarmUp {
		if err := application.WarmUp(ctx); err != nil {
			return err
		}
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := server.New(application, addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config.yaml", "Path to the YAML configuration file")
	serveCmd.Flags().BoolVar(&serveWarmUp, "warmup", false, "Initialize all services at startup instead of on first use")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides the configuration file)")
}
