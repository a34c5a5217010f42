package catalog

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"catalog",
		fx.Provide(NewStore),
	)
}
