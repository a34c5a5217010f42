package billing

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bodega_voz/internal/catalog"
)

var (
	ErrLineNotFound  = errors.New("bill line not found")
	ErrInvalidAmount = errors.New("amount must be zero or positive")
)

// Line is one position of the running bill. Amount is what the customer pays
// for the line; UnitPrice and Unit are snapshots of the catalog entry at the
// time the line was added.
type Line struct {
	ID        uuid.UUID
	Name      string
	Amount    decimal.Decimal
	UnitPrice decimal.Decimal
	Unit      catalog.Unit
	EntryCode string
}

// Quantity is the stock equivalence of the line: amount / unit price. Lines
// priced at zero carry no quantity, so settling them never moves stock.
func (l Line) Quantity() decimal.Decimal {
	if l.UnitPrice.IsPositive() {
		return l.Amount.Div(l.UnitPrice)
	}
	return decimal.Zero
}

// Bill is the ordered, mutable collection of lines being dictated. The total
// is recomputed from scratch on every read; nothing is cached.
type Bill struct {
	mu    sync.Mutex
	lines []Line
}

func NewBill() *Bill {
	return &Bill{}
}

// AddLine appends a line for the given catalog entry and returns its id.
func (b *Bill) AddLine(entry catalog.Entry, amount decimal.Decimal) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	line := Line{
		ID:        uuid.New(),
		Name:      entry.Name,
		Amount:    amount,
		UnitPrice: entry.UnitPrice,
		Unit:      entry.Unit,
		EntryCode: entry.Code,
	}
	b.lines = append(b.lines, line)
	return line.ID
}

// RemoveLine deletes the line with the given id, reporting whether it existed.
func (b *Bill) RemoveLine(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.lines {
		if l.ID == id {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return true
		}
	}
	return false
}

// AdjustLine replaces the amount of a line. Negative amounts are rejected
// and nothing mutates.
func (b *Bill) AdjustLine(id uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.lines {
		if b.lines[i].ID == id {
			b.lines[i].Amount = amount
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear drops every line.
func (b *Bill) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Total sums the line amounts.
func (b *Bill) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Lines returns a snapshot in insertion order for the read surfaces.
func (b *Bill) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Empty reports whether the bill has no lines.
func (b *Bill) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines) == 0
}
