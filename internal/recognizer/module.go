package recognizer

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"recognizer",
		fx.Provide(NewClient),
		fx.Provide(func(c *Client) Recognizer { return c }),
	)
}
