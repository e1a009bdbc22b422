package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/apextrack/internal/config"
	"github.com/mcoot/apextrack/internal/factory"
	"github.com/mcoot/apextrack/internal/status"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the rank tracker until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.Load(os.Environ(), logger)
			if err != nil {
				return err
			}

			interval, err := cfg.ResolveInterval()
			if err != nil {
				return fmt.Errorf("parsing poll interval: %w", err)
			}

			app := factory.New(factory.Config{
				AppConfig:    appCfg,
				PollInterval: interval,
				Logger:       logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var server *status.Server
			if addr := cfg.ResolveStatusAddr(); addr != "" {
				router := status.NewRouter(status.RouterConfig{
					Logger:   logger,
					Registry: app.Registry,
				})
				server = status.NewServer(router, status.DefaultServerConfig(addr), logger)
				go func() {
					if err := server.Start(); err != nil {
						logger.Error("status server error", slog.String("error", err.Error()))
					}
				}()
			}

			logger.Info("tracker started",
				slog.Int("players", len(appCfg.Players)),
				slog.Duration("interval", interval),
			)

			outcomes := app.Supervisor.Run(ctx)
			app.HTTPClient.CloseIdleConnections()

			if server != nil {
				if err := server.Shutdown(context.Background()); err != nil {
					logger.Error("status server shutdown error", slog.String("error", err.Error()))
				}
			}

			failed := 0
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					failed++
				}
			}
			if failed > 0 && ctx.Err() == nil {
				return fmt.Errorf("%d of %d sessions stopped with errors", failed, len(outcomes))
			}

			logger.Info("tracker stopped")
			return nil
		},
	}
}
