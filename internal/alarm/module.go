package alarm

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"alarm",
		fx.Provide(NewTrigger),
	)
}
