package dispatch

import (
	"context"

	"go.uber.org/fx"

	"bodega_voz/internal/alarm"
	"bodega_voz/internal/nlu"
	"bodega_voz/internal/speech"
)

func Module() fx.Option {
	return fx.Module("dispatch",
		fx.Provide(
			NewDispatcher,
			func(c *nlu.Client) Extractor { return c },
			func(t *alarm.Trigger) Guard { return t },
			func(q *speech.Queue) Voice { return q },
		),
		fx.Invoke(func(lc fx.Lifecycle, d *Dispatcher) {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					d.Close()
					return nil
				},
			})
		}),
	)
}
