package session

import (
	"go.uber.org/fx"

	"bodega_voz/internal/alarm"
	"bodega_voz/internal/dispatch"
)

func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(
			NewManager,
			func(d *dispatch.Dispatcher) Dispatcher { return d },
			func(t *alarm.Trigger) Safety { return t },
		),
	)
}
