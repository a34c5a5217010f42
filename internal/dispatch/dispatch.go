// Package dispatch turns finalized utterances into bill mutations. One worker
// drains the inbox, so at most one extraction call is in flight; utterances
// arriving meanwhile wait their turn instead of being dropped.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bodega_voz/internal/billing"
	"bodega_voz/internal/catalog"
	"bodega_voz/internal/config"
	"bodega_voz/internal/matching"
	"bodega_voz/internal/nlu"
	"bodega_voz/internal/speech"
)

const inboxSize = 16

// Extractor is the language-model client as the dispatcher sees it.
type Extractor interface {
	Extract(ctx context.Context, utterance string) (nlu.Command, error)
}

// Guard suppresses command processing while the alarm is engaged.
type Guard interface {
	Active() bool
}

// Voice is the spoken-feedback queue as the dispatcher sees it.
type Voice interface {
	Enqueue(text string, priority bool)
}

type Dispatcher struct {
	extractor Extractor
	guard     Guard
	bill      *billing.Bill
	history   *billing.History
	inventory *catalog.Store
	voice     Voice
	effects   speech.Effects
	timeout   time.Duration
	shop      string
	logger    *zap.Logger

	inbox chan string
	once  sync.Once
	done  chan struct{}
}

func NewDispatcher(
	cfg config.Config,
	extractor Extractor,
	guard Guard,
	bill *billing.Bill,
	history *billing.History,
	inventory *catalog.Store,
	voice Voice,
	effects speech.Effects,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		extractor: extractor,
		guard:     guard,
		bill:      bill,
		history:   history,
		inventory: inventory,
		voice:     voice,
		effects:   effects,
		timeout:   cfg.Timeout,
		shop:      cfg.ShopName,
		logger:    logger.Named("dispatch"),
		inbox:     make(chan string, inboxSize),
		done:      make(chan struct{}),
	}
	go d.work()
	return d
}

// Submit queues one finalized utterance. Never blocks the caller: when the
// inbox is full the utterance is dropped with a warning.
func (d *Dispatcher) Submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	select {
	case d.inbox <- text:
	default:
		d.logger.Warn("inbox full, dropping utterance", zap.String("utterance", text))
	}
}

// Close stops the worker after the inbox drains.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.inbox)
	})
	<-d.done
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for text := range d.inbox {
		if d.guard.Active() {
			d.logger.Info("alarm active, discarding utterance", zap.String("utterance", text))
			continue
		}
		d.process(text)
	}
}

func (d *Dispatcher) process(text string) {
	d.logger.Info("processing utterance", zap.String("utterance", text))

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd, err := d.extractor.Extract(ctx, text)
	if err != nil {
		d.logger.Error("extraction failed", zap.String("utterance", text), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			d.voice.Enqueue("El servicio no está disponible en este momento. Por favor, intenta de nuevo.", false)
			return
		}
		d.voice.Enqueue("Hubo un error al procesar tu pedido. Por favor, intenta de nuevo.", false)
		return
	}

	d.Apply(cmd)
}

// Apply executes one structured command against the bill.
func (d *Dispatcher) Apply(cmd nlu.Command) {
	switch cmd.Kind {
	case nlu.KindAddProduct:
		d.addProducts(cmd.Products)
	case nlu.KindRemoveProduct:
		d.removeProducts(cmd.Products)
	case nlu.KindNewBill:
		d.bill.Clear()
		d.voice.Enqueue("Nueva cuenta lista.", false)
	case nlu.KindPayYape:
		d.Settle(billing.MethodYape)
	case nlu.KindPayCash:
		d.Settle(billing.MethodCash)
	default:
		d.voice.Enqueue("No entendí el comando. Por favor, intenta de nuevo.", false)
	}
}

func (d *Dispatcher) addProducts(products []nlu.Product) {
	if len(products) == 0 {
		d.voice.Enqueue("No entendí qué producto agregar.", true)
		return
	}

	entries := d.inventory.All()
	added := 0
	var notFound, noStock []string

	for _, p := range products {
		entry, ok := matching.BestMatch(p.Name, entries)
		if !ok {
			notFound = append(notFound, p.Name)
			continue
		}
		if !entry.Stock.IsPositive() {
			noStock = append(noStock, entry.Name)
			continue
		}

		amount := lineAmount(p, entry)
		if !amount.IsPositive() {
			// Neither a spoken amount nor a derivable one; the mention
			// never becomes a line.
			d.logger.Warn("product without resolvable amount",
				zap.String("product", p.Name),
				zap.String("entry", entry.Code),
			)
			continue
		}

		id := d.bill.AddLine(entry, amount)
		added++
		d.logger.Info("line added",
			zap.String("line_id", id.String()),
			zap.String("entry", entry.Code),
			zap.String("amount", amount.StringFixed(2)),
		)
	}

	if added > 0 {
		d.effects.Chime()
	}

	var parts []string
	if len(notFound) > 0 {
		parts = append(parts, "No encontré: "+strings.Join(notFound, ", ")+".")
	}
	if len(noStock) > 0 {
		parts = append(parts, "Sin stock: "+strings.Join(noStock, ", ")+".")
	}
	switch {
	case len(parts) > 0:
		d.voice.Enqueue(strings.Join(parts, " "), true)
	case added == 0:
		d.voice.Enqueue("No pude agregar los productos. Por favor, revisa el pedido.", true)
	}
}

// removeProducts deletes bill lines by spoken name. When a name matches more
// than one line the most recently added one goes.
func (d *Dispatcher) removeProducts(products []nlu.Product) {
	if len(products) == 0 {
		d.voice.Enqueue("No entendí qué producto quitar.", false)
		return
	}

	var removed, missing []string
	for _, p := range products {
		lines := d.bill.Lines()
		// Newest-first so a tie resolves to the most recently added line.
		names := make([]string, len(lines))
		for i, l := range lines {
			names[len(lines)-1-i] = l.Name
		}

		idx, ok := matching.BestIndex(p.Name, names)
		if !ok {
			missing = append(missing, p.Name)
			continue
		}
		target := lines[len(lines)-1-idx]
		if d.bill.RemoveLine(target.ID) {
			removed = append(removed, target.Name)
		}
	}

	var parts []string
	if len(removed) > 0 {
		parts = append(parts, "Quitado: "+strings.Join(removed, ", ")+".")
	}
	if len(missing) > 0 {
		parts = append(parts, "No encontré en la cuenta: "+strings.Join(missing, ", ")+".")
	}
	d.voice.Enqueue(strings.Join(parts, " "), false)
}

// Settle records the bill as a sale, moves stock and starts a fresh bill.
func (d *Dispatcher) Settle(method billing.PaymentMethod) {
	if d.bill.Empty() {
		d.voice.Enqueue("La cuenta está vacía. No hay nada que pagar.", false)
		return
	}

	lines := d.bill.Lines()
	total := d.bill.Total()
	now := time.Now()

	sale := billing.Sale{
		ID:        fmt.Sprintf("VTA-%d", now.UnixMilli()),
		Shop:      d.shop,
		Timestamp: now,
		Method:    method,
		Lines:     lines,
		Total:     total,
	}
	d.history.Append(sale)

	for _, l := range lines {
		d.inventory.Decrement(l.EntryCode, l.Quantity())
	}

	d.bill.Clear()
	d.logger.Info("sale settled",
		zap.String("sale_id", sale.ID),
		zap.String("method", string(method)),
		zap.String("total", total.StringFixed(2)),
		zap.Int("lines", len(lines)),
	)
	d.voice.Enqueue(fmt.Sprintf("Pago de %s soles con %s confirmado. Gracias.", total.StringFixed(2), method), false)
}

// lineAmount resolves what the customer pays for one mention: the spoken
// amount when present, otherwise quantity times unit price. Without either
// there is nothing to charge and the mention is rejected.
func lineAmount(p nlu.Product, entry catalog.Entry) decimal.Decimal {
	if p.Amount.IsPositive() {
		return p.Amount
	}
	if p.Quantity.IsPositive() {
		return p.Quantity.Mul(entry.UnitPrice)
	}
	return decimal.Zero
}
