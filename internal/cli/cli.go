// Package cli is the console surface of the assistant: it starts and stops
// recognition, shows the bill and the dashboard, and exposes every voice
// command as a typed fallback for when the microphone is not an option.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bodega_voz/internal/alarm"
	"bodega_voz/internal/billing"
	"bodega_voz/internal/catalog"
	"bodega_voz/internal/config"
	"bodega_voz/internal/dispatch"
	"bodega_voz/internal/nlu"
	"bodega_voz/internal/report"
	"bodega_voz/internal/session"
)

type Runner struct {
	cfg        config.Config
	logger     *zap.Logger
	manager    *session.Manager
	trigger    *alarm.Trigger
	dispatcher *dispatch.Dispatcher
	bill       *billing.Bill
	history    *billing.History
	inventory  *catalog.Store
	exporter   *report.Exporter

	status     *consoleSink
	transcript *consoleSink
}

func NewRunner(
	cfg config.Config,
	logger *zap.Logger,
	manager *session.Manager,
	trigger *alarm.Trigger,
	dispatcher *dispatch.Dispatcher,
	bill *billing.Bill,
	history *billing.History,
	inventory *catalog.Store,
	exporter *report.Exporter,
) *Runner {
	r := &Runner{
		cfg:        cfg,
		logger:     logger.Named("cli"),
		manager:    manager,
		trigger:    trigger,
		dispatcher: dispatcher,
		bill:       bill,
		history:    history,
		inventory:  inventory,
		exporter:   exporter,
		status:     newConsoleSink("estado", os.Stdout, false),
		transcript: newConsoleSink("oído", os.Stdout, !cfg.Debug),
	}

	trigger.Bind(manager, r.status)
	manager.Bind(r.status, r.transcript)
	return r
}

func (r *Runner) Execute() error {
	debug := r.cfg.Debug

	fs := flag.NewFlagSet("bodega-voz", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.BoolVar(&debug, "debug", debug, "Echo the live transcript (DEBUG)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	r.transcript.setMute(!debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	fmt.Fprintf(os.Stdout, "%s, asistente de ventas por voz (escribe 'help' para los comandos)\n", r.cfg.ShopName)
	r.logger.Info("console ready", zap.String("shop", r.cfg.ShopName))
	r.status.Set("Presiona para hablar")

	reader := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			r.manager.Stop()
			return nil
		default:
		}

		fmt.Fprint(os.Stdout, "> ")
		if !reader.Scan() {
			r.manager.Stop()
			return reader.Err()
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		if done := r.handle(line); done {
			r.manager.Stop()
			return nil
		}
	}
}

// handle runs one console command, reporting whether the session should end.
func (r *Runner) handle(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		r.printHelp()
	case "start":
		if err := r.manager.Start(); err != nil {
			fmt.Fprintf(os.Stdout, "No se pudo iniciar: %v\n", err)
		}
	case "stop":
		r.manager.Stop()
		r.status.Set("Presiona para hablar")
	case "new":
		r.dispatcher.Apply(nlu.Command{Kind: nlu.KindNewBill})
	case "yape":
		r.dispatcher.Apply(nlu.Command{Kind: nlu.KindPayYape})
	case "efectivo":
		r.dispatcher.Apply(nlu.Command{Kind: nlu.KindPayCash})
	case "remove":
		r.removeLine(args)
	case "adjust":
		r.adjustLine(args)
	case "bill":
		r.printBill()
	case "inventory":
		r.printInventory()
	case "dashboard":
		r.printDashboard()
	case "prev":
		r.printSale(r.history.Prev())
	case "next":
		r.printSale(r.history.Next())
	case "export":
		path, err := r.exporter.Export()
		if err != nil {
			r.logger.Error("export failed", zap.Error(err))
			fmt.Fprintf(os.Stdout, "No se pudo exportar: %v\n", err)
			break
		}
		fmt.Fprintf(os.Stdout, "Reporte guardado en %s\n", path)
	case "panic":
		r.togglePanic(args)
	case "say":
		// Typed fallback: the text goes through the same pipeline as
		// dictated speech.
		r.dispatcher.Submit(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
	default:
		fmt.Fprintf(os.Stdout, "Comando desconocido: %s (escribe 'help')\n", cmd)
	}
	return false
}

func (r *Runner) removeLine(args []string) {
	idx, ok := r.lineIndex(args)
	if !ok {
		return
	}
	lines := r.bill.Lines()
	if r.bill.RemoveLine(lines[idx].ID) {
		fmt.Fprintf(os.Stdout, "Quitado: %s\n", lines[idx].Name)
	}
}

func (r *Runner) adjustLine(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stdout, "Uso: adjust <línea> <importe>")
		return
	}
	idx, ok := r.lineIndex(args[:1])
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		fmt.Fprintf(os.Stdout, "Importe inválido: %s\n", args[1])
		return
	}
	lines := r.bill.Lines()
	if err := r.bill.AdjustLine(lines[idx].ID, amount); err != nil {
		fmt.Fprintf(os.Stdout, "No se pudo ajustar: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stdout, "%s ahora cuesta S/ %s\n", lines[idx].Name, amount.StringFixed(2))
}

// lineIndex parses a 1-based bill line number from the first argument.
func (r *Runner) lineIndex(args []string) (int, bool) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stdout, "Falta el número de línea.")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(r.bill.Lines()) {
		fmt.Fprintf(os.Stdout, "Línea inválida: %s\n", args[0])
		return 0, false
	}
	return n - 1, true
}

func (r *Runner) togglePanic(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stdout, "Uso: panic on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		r.trigger.Engage("manual")
	case "off":
		r.trigger.Disengage()
	default:
		fmt.Fprintln(os.Stdout, "Uso: panic on|off")
	}
}

func (r *Runner) printHelp() {
	fmt.Fprint(os.Stdout, `Comandos:
  start                  inicia el reconocimiento de voz
  stop                   detiene el reconocimiento
  new                    empieza una cuenta nueva
  yape                   cobra la cuenta por Yape
  efectivo               cobra la cuenta en efectivo
  remove <línea>         quita una línea de la cuenta
  adjust <línea> <monto> cambia el importe de una línea
  bill                   muestra la cuenta actual
  inventory              muestra el inventario valorizado
  dashboard              muestra los totales del día
  prev / next            recorre las ventas cobradas
  export                 guarda el reporte en Excel
  panic on|off           activa o desactiva la alarma
  say <texto>            procesa el texto como si fuera dictado
  exit                   termina
`)
}
