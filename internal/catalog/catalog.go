package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the unit of measure a product is sold in. It is derived from the
// trailing parenthetical of the display name, e.g. "Arroz Blanco (1 kg)".
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitLiter      Unit = "L"
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "unid."
)

// Entry is one product of the shop catalog. Stock is mutable and is allowed
// to go negative: out-of-stock is checked before settlement, never enforced
// here. InitialStock is the snapshot taken at load time and only feeds
// movement reporting.
type Entry struct {
	Code          string
	Name          string
	Category      string
	Supplier      string
	UnitPrice     decimal.Decimal
	Unit          Unit
	Stock         decimal.Decimal
	InitialStock  decimal.Decimal
	NextDropStock decimal.Decimal
	ExpiryDate    string
}

var parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

// UnitFromName parses the unit of measure out of a display name. Products
// without a recognizable annotation sell by the piece.
func UnitFromName(name string) Unit {
	match := parenthetical.FindStringSubmatch(strings.ToLower(name))
	if match == nil {
		return UnitPiece
	}
	part := strings.TrimSpace(match[1])
	switch {
	case strings.HasSuffix(part, "kg"):
		return UnitKilogram
	case strings.HasSuffix(part, "ml"):
		return UnitMilliliter
	case strings.HasSuffix(part, "l"):
		return UnitLiter
	case strings.HasSuffix(part, "g"):
		return UnitGram
	}
	return UnitPiece
}
