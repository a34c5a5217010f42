package speech

import (
	"context"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"speech",
		fx.Provide(NewClient),
		fx.Provide(func(c *Client) Synthesizer { return c }),
		fx.Provide(func(c *Client) Effects { return c }),
		fx.Provide(NewQueue),
		fx.Invoke(func(lc fx.Lifecycle, q *Queue) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					q.Close()
					return nil
				},
			})
		}),
	)
}
