package main

import (
	"github.com/genricoloni/nowrelay/internal/gateway"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// GatewayOptions is the relay gateway's graph, minus configuration
var GatewayOptions = fx.Options(
	gateway.Module,
)

func newGatewayCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Forward bridge requests to the display device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), fx.New(appOptions(cfg, GatewayOptions)))
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (default :5000)")
	cmd.Flags().String("device-url", "", "base URL of the display device")
	return cmd
}
