package gateway

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/httpserver"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewServer creates the gateway HTTP server and ties it to the app lifecycle
func NewServer(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config, h *Handler) *httpserver.Server {
	srv := httpserver.New(logger, "gateway", cfg.Gateway.Listen, h.Routes())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Relay gateway starting",
				zap.String("listen", cfg.Gateway.Listen),
				zap.String("device", cfg.Gateway.DeviceURL),
				zap.Duration("timeout", cfg.Gateway.Timeout),
				zap.String("maxBody", humanize.IBytes(uint64(cfg.Gateway.MaxBodyBytes))),
				zap.Bool("forwardCommands", cfg.Gateway.ForwardCommands))
			return srv.Start(ctx)
		},
		OnStop: srv.Stop,
	})

	return srv
}

// Module provides the relay gateway
var Module = fx.Module("gateway",
	fx.Provide(NewHandler, NewServer),
	// Force construction so the lifecycle hooks are registered
	fx.Invoke(func(*httpserver.Server) {}),
)
