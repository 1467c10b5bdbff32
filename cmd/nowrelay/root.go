package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nowrelay",
		Short: "Relay the host's now-playing track to a small display",
		Long: `nowrelay watches the local media player and pushes the current track,
with a downscaled cover, to a network display. The bridge runs next to the
player; the gateway forwards its requests to the display device.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/nowrelay/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newGatewayCmd(opts),
		newBridgeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads and validates configuration for the running subcommand
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// appOptions assembles the shared graph around a role's modules
func appOptions(cfg *config.Config, role fx.Option) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(logging.NewFxLogger),
		logging.Module,
		role,
	)
}

// runApp starts the app and blocks until SIGINT or SIGTERM
func runApp(ctx context.Context, app *fx.App) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	return app.Stop(stopCtx)
}
