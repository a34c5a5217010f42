package internal

import (
	"context"

	"bodega_voz/internal/alarm"
	"bodega_voz/internal/billing"
	"bodega_voz/internal/catalog"
	"bodega_voz/internal/cli"
	"bodega_voz/internal/config"
	"bodega_voz/internal/dispatch"
	"bodega_voz/internal/logging"
	"bodega_voz/internal/nlu"
	"bodega_voz/internal/recognizer"
	"bodega_voz/internal/report"
	"bodega_voz/internal/session"
	"bodega_voz/internal/speech"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		catalog.Module(),
		billing.Module(),
		nlu.Module(),
		speech.Module(),
		recognizer.Module(),
		alarm.Module(),
		dispatch.Module(),
		session.Module(),
		report.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
