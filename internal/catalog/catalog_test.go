package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitFromName(t *testing.T) {
	tests := []struct {
		name string
		want Unit
	}{
		{"Arroz Blanco (1 kg)", UnitKilogram},
		{"Aceite Vegetal (1 L)", UnitLiter},
		{"Lentejas (500 g)", UnitGram},
		{"Gaseosa (500 ml)", UnitMilliliter},
		{"Huevos", UnitPiece},
		{"Pan Francés (unid.)", UnitPiece},
		{"Detergente (ml)", UnitMilliliter},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UnitFromName(tt.name), "UnitFromName(%q)", tt.name)
	}
}

func TestSeedCatalog(t *testing.T) {
	s := NewStore()
	entries := s.All()
	require.NotEmpty(t, entries)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		assert.False(t, seen[e.Code], "duplicate code %s", e.Code)
		seen[e.Code] = true
		assert.True(t, e.UnitPrice.IsPositive(), "%s has no price", e.Code)
		assert.True(t, e.InitialStock.Equal(e.Stock), "%s initial stock not snapshotted", e.Code)
		assert.NotEqual(t, Unit(""), e.Unit, "%s has no unit", e.Code)
	}

	arroz, ok := s.Lookup("AB-001")
	require.True(t, ok)
	assert.Equal(t, UnitKilogram, arroz.Unit)
}

func TestStoreDecrement(t *testing.T) {
	s := NewStoreWith([]Entry{
		{Code: "P-001", Name: "Pan Francés", UnitPrice: decimal.RequireFromString("0.50"), Stock: decimal.NewFromInt(10)},
	})

	s.Decrement("P-001", decimal.NewFromInt(4))
	e, ok := s.Lookup("P-001")
	require.True(t, ok)
	assert.True(t, e.Stock.Equal(decimal.NewFromInt(6)), "stock = %s", e.Stock)
	assert.True(t, e.InitialStock.Equal(decimal.NewFromInt(10)))

	// Zero is a no-op, unknown codes are ignored.
	s.Decrement("P-001", decimal.Zero)
	s.Decrement("NO-SUCH", decimal.NewFromInt(1))
	e, _ = s.Lookup("P-001")
	assert.True(t, e.Stock.Equal(decimal.NewFromInt(6)))

	// Oversold stock goes negative instead of clamping.
	s.Decrement("P-001", decimal.NewFromInt(10))
	e, _ = s.Lookup("P-001")
	assert.True(t, e.Stock.Equal(decimal.NewFromInt(-4)), "stock = %s", e.Stock)
}

func TestStoreValuation(t *testing.T) {
	s := NewStoreWith([]Entry{
		{Code: "P-001", Name: "Arroz (1 kg)", UnitPrice: decimal.RequireFromString("5.00"), Stock: decimal.NewFromInt(10), NextDropStock: decimal.NewFromInt(2)},
		{Code: "P-002", Name: "Leche (1 L)", UnitPrice: decimal.RequireFromString("4.00"), Stock: decimal.NewFromInt(5)},
	})

	vals := s.Valuation()
	require.Len(t, vals, 2)
	assert.True(t, vals[0].StockValue.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, vals[0].LossValue.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, vals[1].StockValue.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, s.TotalValue().Equal(decimal.RequireFromString("70.00")))
}
