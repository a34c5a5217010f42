package logging

import (
	"context"
	"os"

	"bodega_voz/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"logging",
		fx.Provide(func(cfg config.Config) (*os.File, error) {
			return Open(cfg.LogFile)
		}),
		fx.Decorate(func(base *zap.Logger, cfg config.Config, file *os.File) *zap.Logger {
			return Tee(base, file, cfg.Debug)
		}),
		fx.Invoke(func(lc fx.Lifecycle, file *os.File) {
			if file == nil {
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					return file.Close()
				},
			})
		}),
	)
}
