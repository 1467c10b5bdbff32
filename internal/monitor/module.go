package monitor

import (
	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/fx"
)

// Module provides the MPRIS monitor under each capability it serves
var Module = fx.Module("monitor",
	fx.Provide(
		NewMprisMonitor,
		fx.Annotate(
			func(m *MprisMonitor) domain.EventSource { return m },
			fx.ResultTags(`group:"sources"`),
		),
		func(m *MprisMonitor) domain.PlayerStateProvider { return m },
		func(m *MprisMonitor) domain.PlayerController { return m },
	),
	fx.Invoke(func(lc fx.Lifecycle, m *MprisMonitor) {
		lc.Append(fx.Hook{
			OnStart: m.Start,
			OnStop:  m.Stop,
		})
	}),
)
