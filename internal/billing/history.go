package billing

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a sale was collected through.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "Efectivo"
	MethodYape PaymentMethod = "YAPE"
)

// Sale is the immutable record of a settled bill.
type Sale struct {
	ID        string
	Shop      string
	Timestamp time.Time
	Method    PaymentMethod
	Lines     []Line
	Total     decimal.Decimal
}

// History is the append-only sequence of sales plus the review cursor. The
// cursor is -1 while empty and otherwise always points inside the sequence.
type History struct {
	mu     sync.Mutex
	sales  []Sale
	cursor int
}

func NewHistory() *History {
	return &History{cursor: -1}
}

// Append records a sale and moves the cursor to it.
func (h *History) Append(s Sale) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sales = append(h.sales, s)
	h.cursor = len(h.sales) - 1
}

// Current returns the sale under the cursor.
func (h *History) Current() (Sale, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 {
		return Sale{}, false
	}
	return h.sales[h.cursor], true
}

// Prev moves the cursor one sale back, stopping at the oldest.
func (h *History) Prev() (Sale, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor <= 0 {
		if h.cursor < 0 {
			return Sale{}, false
		}
		return h.sales[h.cursor], true
	}
	h.cursor--
	return h.sales[h.cursor], true
}

// Next moves the cursor one sale forward, stopping at the newest.
func (h *History) Next() (Sale, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 {
		return Sale{}, false
	}
	if h.cursor < len(h.sales)-1 {
		h.cursor++
	}
	return h.sales[h.cursor], true
}

// Cursor exposes the review position for the invariant checks of the UI.
func (h *History) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sales)
}

// All returns the sales oldest-first for the export surface.
func (h *History) All() []Sale {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Sale, len(h.sales))
	copy(out, h.sales)
	return out
}

// TotalByMethod sums settled totals collected through the given channel.
func (h *History) TotalByMethod(m PaymentMethod) decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := decimal.Zero
	for _, s := range h.sales {
		if s.Method == m {
			total = total.Add(s.Total)
		}
	}
	return total
}

// GrandTotal sums every settled sale.
func (h *History) GrandTotal() decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := decimal.Zero
	for _, s := range h.sales {
		total = total.Add(s.Total)
	}
	return total
}
