package nlu

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"nlu",
		fx.Provide(NewClient),
	)
}
