package catalog

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Store keeps the in-memory catalog. Entries are created once at startup and
// only their stock mutates afterwards, exclusively through Decrement.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	index   map[string]int
}

func NewStore() *Store {
	return newStore(seedEntries())
}

// NewStoreWith builds a store over the given entries, snapshotting their
// stock as the initial stock and deriving units from the display names.
func NewStoreWith(entries []Entry) *Store {
	return newStore(entries)
}

func newStore(entries []Entry) *Store {
	s := &Store{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		e.InitialStock = e.Stock
		if e.Unit == "" {
			e.Unit = UnitFromName(e.Name)
		}
		s.entries[i] = e
		s.index[e.Code] = i
	}
	return s
}

// Lookup returns the entry with the given code.
func (s *Store) Lookup(code string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[code]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Decrement removes quantity units of stock. A zero quantity is a no-op and
// the result is not clamped: stock may go negative.
func (s *Store) Decrement(code string, quantity decimal.Decimal) {
	if quantity.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[code]; ok {
		s.entries[i].Stock = s.entries[i].Stock.Sub(quantity)
	}
}

// All returns the catalog in load order.
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Valuation is an entry enriched with the derived monetary fields the
// dashboard and the export report show.
type Valuation struct {
	Entry
	StockValue     decimal.Decimal
	LossValue      decimal.Decimal
	ResultingValue decimal.Decimal
}

// Valuation computes the derived fields for every entry.
func (s *Store) Valuation() []Valuation {
	entries := s.All()
	out := make([]Valuation, 0, len(entries))
	for _, e := range entries {
		v := Valuation{
			Entry:      e,
			StockValue: e.Stock.Mul(e.UnitPrice),
			LossValue:  e.NextDropStock.Mul(e.UnitPrice),
		}
		v.ResultingValue = v.StockValue
		out = append(out, v)
	}
	return out
}

// TotalValue sums the resulting inventory value across the catalog.
func (s *Store) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.Valuation() {
		total = total.Add(v.ResultingValue)
	}
	return total
}
