package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	widgethttp "widgetdb/internal/http"
	"widgetdb/internal/logging"
	"widgetdb/pkg/config"
	"widgetdb/pkg/metrics"
	"widgetdb/pkg/store"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over an in-memory widget store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logging.Init(os.Stdout, cfg.Logger)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "widgetdb.yaml", "path to YAML config")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	reg := metrics.NewRegistry()
	server := widgethttp.NewServer(store.New(nil, store.WithCollector(reg)), cfg)
	server.SetMetrics(reg)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		slog.Error("error stopping server", "error", err)
		return err
	}
	slog.Info("widgetdb stopped")
	return nil
}
