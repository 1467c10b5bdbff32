package main

import (
	"github.com/genricoloni/nowrelay/internal/control"
	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/genricoloni/nowrelay/internal/engine"
	"github.com/genricoloni/nowrelay/internal/fetcher"
	"github.com/genricoloni/nowrelay/internal/metadata"
	"github.com/genricoloni/nowrelay/internal/monitor"
	"github.com/genricoloni/nowrelay/internal/processor"
	"github.com/genricoloni/nowrelay/internal/relay"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// BridgeOptions is the host-side graph, minus configuration
var BridgeOptions = fx.Options(
	fx.Provide(
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(processor.NewThumbnailer, fx.As(new(domain.Normalizer))),
		fx.Annotate(metadata.NewBuilder, fx.As(new(domain.MetadataBuilder))),
		fx.Annotate(relay.NewClient, fx.As(new(domain.GatewayClient))),
	),
	monitor.Module,
	control.Module,
	engine.Module,
)

func newBridgeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Watch the media player and push tracks to the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), fx.New(appOptions(cfg, BridgeOptions)))
		},
	}

	cmd.Flags().String("gateway-url", "", "base URL of the relay gateway")
	cmd.Flags().String("control-listen", "", "address for device button presses (empty disables)")
	return cmd
}
