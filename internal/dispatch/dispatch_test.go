package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bodega_voz/internal/billing"
	"bodega_voz/internal/catalog"
	"bodega_voz/internal/config"
	"bodega_voz/internal/nlu"
)

type fakeExtractor struct {
	cmd nlu.Command
	err error
}

func (f *fakeExtractor) Extract(context.Context, string) (nlu.Command, error) {
	return f.cmd, f.err
}

type fakeGuard struct {
	mu     sync.Mutex
	active bool
}

func (f *fakeGuard) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

type fakeEffects struct {
	mu     sync.Mutex
	chimes int
}

func (f *fakeEffects) Chime() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chimes++
}

func (f *fakeEffects) Chimes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chimes
}

func (f *fakeEffects) StartSiren() error { return nil }
func (f *fakeEffects) StopSiren() error  { return nil }

type utterance struct {
	text     string
	priority bool
}

type fakeVoice struct {
	mu     sync.Mutex
	spoken []utterance
}

func (f *fakeVoice) Enqueue(text string, priority bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, utterance{text: text, priority: priority})
}

func (f *fakeVoice) Spoken() []utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]utterance, len(f.spoken))
	copy(out, f.spoken)
	return out
}

func (f *fakeVoice) find(substr string) (utterance, bool) {
	for _, u := range f.Spoken() {
		if strings.Contains(u.text, substr) {
			return u, true
		}
	}
	return utterance{}, false
}

func (f *fakeVoice) waitFor(t *testing.T, substr string) utterance {
	t.Helper()
	var got utterance
	require.Eventually(t, func() bool {
		u, ok := f.find(substr)
		got = u
		return ok
	}, time.Second, 5*time.Millisecond, "never spoke %q, got %v", substr, f.Spoken())
	return got
}

type fixture struct {
	dispatcher *Dispatcher
	extractor  *fakeExtractor
	guard      *fakeGuard
	effects    *fakeEffects
	voice      *fakeVoice
	bill       *billing.Bill
	history    *billing.History
	inventory  *catalog.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		extractor: &fakeExtractor{},
		guard:     &fakeGuard{},
		effects:   &fakeEffects{},
		voice:     &fakeVoice{},
		bill:      billing.NewBill(),
		history:   billing.NewHistory(),
		inventory: catalog.NewStoreWith([]catalog.Entry{
			{Code: "P-001", Name: "Pan Francés", UnitPrice: decimal.RequireFromString("0.50"), Stock: decimal.NewFromInt(10)},
			{Code: "P-002", Name: "Leche Entera (1 L)", UnitPrice: decimal.RequireFromString("5.00"), Stock: decimal.Zero},
			{Code: "P-003", Name: "Arroz Blanco (1 kg)", UnitPrice: decimal.RequireFromString("4.00"), Stock: decimal.NewFromInt(8)},
		}),
	}

	cfg := config.Config{
		ShopName: "Mi Bodeguita",
		Timeout:  time.Second,
	}
	f.dispatcher = NewDispatcher(cfg, f.extractor, f.guard, f.bill, f.history, f.inventory, f.voice, f.effects, zap.NewNop())
	t.Cleanup(f.dispatcher.Close)
	return f
}

func addCommand(products ...nlu.Product) nlu.Command {
	return nlu.Command{Kind: nlu.KindAddProduct, Products: products}
}

func TestApplyAddDerivesAmountFromQuantity(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(2)}))

	lines := f.bill.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Pan Francés", lines[0].Name)
	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("1.00")), "amount = %s", lines[0].Amount)
	assert.Equal(t, 1, f.effects.Chimes())
}

func TestApplyAddPrefersSpokenAmount(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Apply(addCommand(nlu.Product{
		Name:     "arroz blanco",
		Quantity: decimal.NewFromInt(2),
		Amount:   decimal.RequireFromString("3.00"),
	}))

	lines := f.bill.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("3.00")))
}

func TestApplyAddSkipsProductWithoutAmount(t *testing.T) {
	f := newFixture(t)

	// Resolvable product, but neither a spoken amount nor a quantity.
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "arroz blanco"}))

	assert.True(t, f.bill.Empty())
	assert.Equal(t, 0, f.effects.Chimes())
	got, ok := f.voice.find("No pude agregar los productos. Por favor, revisa el pedido.")
	require.True(t, ok, "spoken: %v", f.voice.Spoken())
	assert.True(t, got.priority)
}

func TestApplyAddReportsMissingAndOutOfStock(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Apply(addCommand(
		nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(1)},
		nlu.Product{Name: "cuaderno"},
		nlu.Product{Name: "leche entera"},
	))

	// The resolvable product still lands on the bill.
	require.Len(t, f.bill.Lines(), 1)
	assert.Equal(t, 1, f.effects.Chimes())

	got, ok := f.voice.find("No encontré: cuaderno.")
	require.True(t, ok, "spoken: %v", f.voice.Spoken())
	assert.Contains(t, got.text, "Sin stock: Leche Entera (1 L).")
	assert.True(t, got.priority)
}

func TestApplyAddWithoutProducts(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Apply(addCommand())

	got, ok := f.voice.find("No entendí qué producto agregar.")
	require.True(t, ok, "spoken: %v", f.voice.Spoken())
	assert.True(t, got.priority)
	assert.True(t, f.bill.Empty())
}

func TestApplyRemoveTakesNewestMatch(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(1)}))
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "arroz blanco", Quantity: decimal.NewFromInt(1)}))
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(1)}))
	require.Len(t, f.bill.Lines(), 3)

	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindRemoveProduct, Products: []nlu.Product{{Name: "pan francés"}}})

	lines := f.bill.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Pan Francés", lines[0].Name)
	assert.Equal(t, "Arroz Blanco (1 kg)", lines[1].Name)
	_, ok := f.voice.find("Quitado: Pan Francés.")
	assert.True(t, ok, "spoken: %v", f.voice.Spoken())
}

func TestApplyRemoveUnknownProduct(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(1)}))

	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindRemoveProduct, Products: []nlu.Product{{Name: "cuaderno"}}})

	require.Len(t, f.bill.Lines(), 1)
	_, ok := f.voice.find("No encontré en la cuenta: cuaderno.")
	assert.True(t, ok, "spoken: %v", f.voice.Spoken())
}

func TestApplyNewBill(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(1)}))
	require.False(t, f.bill.Empty())

	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindNewBill})

	assert.True(t, f.bill.Empty())
	_, ok := f.voice.find("Nueva cuenta lista.")
	assert.True(t, ok, "spoken: %v", f.voice.Spoken())
}

func TestSettleRecordsSaleAndMovesStock(t *testing.T) {
	f := newFixture(t)

	// Two pan at 0.50 = amount 1.00, quantity 2.
	f.dispatcher.Apply(addCommand(nlu.Product{Name: "pan frances", Quantity: decimal.NewFromInt(2)}))

	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindPayYape})

	require.Equal(t, 1, f.history.Len())
	sale, ok := f.history.Current()
	require.True(t, ok)
	assert.Equal(t, billing.MethodYape, sale.Method)
	assert.Equal(t, "Mi Bodeguita", sale.Shop)
	assert.True(t, strings.HasPrefix(sale.ID, "VTA-"), "sale id %q", sale.ID)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("1.00")))

	pan, _ := f.inventory.Lookup("P-001")
	assert.True(t, pan.Stock.Equal(decimal.NewFromInt(8)), "stock = %s", pan.Stock)

	assert.True(t, f.bill.Empty(), "settling starts a fresh bill")
	_, spoken := f.voice.find("Pago de 1.00 soles con YAPE confirmado. Gracias.")
	assert.True(t, spoken, "spoken: %v", f.voice.Spoken())
}

func TestSettleEmptyBill(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindPayCash})

	assert.Equal(t, 0, f.history.Len())
	_, ok := f.voice.find("La cuenta está vacía. No hay nada que pagar.")
	assert.True(t, ok, "spoken: %v", f.voice.Spoken())
}

func TestApplyUnrecognizedCommand(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Apply(nlu.Command{Kind: nlu.KindNone})
	_, ok := f.voice.find("No entendí el comando. Por favor, intenta de nuevo.")
	assert.True(t, ok, "spoken: %v", f.voice.Spoken())
}

func TestSubmitRunsExtraction(t *testing.T) {
	f := newFixture(t)
	f.extractor.cmd = addCommand(nlu.Product{Name: "arroz blanco", Quantity: decimal.NewFromInt(1)})

	f.dispatcher.Submit("dame un arroz")

	require.Eventually(t, func() bool {
		return len(f.bill.Lines()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitIgnoredWhileAlarmActive(t *testing.T) {
	f := newFixture(t)
	f.extractor.cmd = addCommand(nlu.Product{Name: "arroz blanco"})
	f.guard.active = true

	f.dispatcher.Submit("dame un arroz")

	time.Sleep(50 * time.Millisecond)
	assert.True(t, f.bill.Empty())
	assert.Empty(t, f.voice.Spoken())
}

func TestSubmitSpeaksOnExtractionTimeout(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = fmt.Errorf("extraction call: %w", context.DeadlineExceeded)

	f.dispatcher.Submit("dos panes")

	f.voice.waitFor(t, "El servicio no está disponible en este momento.")
	assert.True(t, f.bill.Empty())
}

func TestSubmitSpeaksOnExtractionFailure(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = fmt.Errorf("extraction call: boom")

	f.dispatcher.Submit("dos panes")

	f.voice.waitFor(t, "Hubo un error al procesar tu pedido.")
}
