package nlu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of commands the extraction service can return.
type Kind string

const (
	KindAddProduct    Kind = "ADD_PRODUCT"
	KindRemoveProduct Kind = "REMOVE_PRODUCT"
	KindNewBill       Kind = "NEW_BILL"
	KindPayYape       Kind = "PAY_YAPE"
	KindPayCash       Kind = "PAY_CASH"
	KindNone          Kind = "NONE"
)

// Product is one product mention extracted from an utterance. Quantity, Unit
// and Amount are optional; an absent amount may still be derivable from
// quantity times the catalog unit price.
type Product struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
	Amount   decimal.Decimal
}

// Command is the structured result of one extraction call.
type Command struct {
	Kind     Kind
	Products []Product
}

// wireCommand mirrors the JSON the model is instructed to produce. Command
// names on the wire are the Spanish ones of the prompt contract.
type wireCommand struct {
	Command  string        `json:"command"`
	Products []wireProduct `json:"products"`
}

type wireProduct struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
}

var kindByWire = map[string]Kind{
	"AGREGAR_PRODUCTO":  KindAddProduct,
	"ELIMINAR_PRODUCTO": KindRemoveProduct,
	"NUEVA_CUENTA":      KindNewBill,
	"PAGAR_YAPE":        KindPayYape,
	"PAGAR_EFECTIVO":    KindPayCash,
	"NINGUNO":           KindNone,
}

// decodeCommand parses the model output, stripping markdown fences if the
// model wrapped the JSON, and clamps the loosely-typed payload into the
// closed command shape. Unknown commands degrade to NONE; products without a
// name are dropped.
func decodeCommand(raw string) (Command, error) {
	trimmed := stripFences(raw)
	var wire wireCommand
	if err := json.Unmarshal([]byte(trimmed), &wire); err != nil {
		return Command{}, fmt.Errorf("decoding extraction response: %w", err)
	}

	kind, ok := kindByWire[strings.ToUpper(strings.TrimSpace(wire.Command))]
	if !ok {
		kind = KindNone
	}

	products := make([]Product, 0, len(wire.Products))
	for _, p := range wire.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		products = append(products, Product{
			Name:     name,
			Quantity: decimal.NewFromFloat(p.Quantity),
			Unit:     strings.TrimSpace(p.Unit),
			Amount:   decimal.NewFromFloat(p.Amount),
		})
	}

	return Command{Kind: kind, Products: products}, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
