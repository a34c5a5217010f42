package cli

import (
	"fmt"
	"os"

	"bodega_voz/internal/billing"
)

func (r *Runner) printBill() {
	lines := r.bill.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(os.Stdout, "La cuenta está vacía.")
		return
	}
	for i, l := range lines {
		fmt.Fprintf(os.Stdout, "%2d) %-40s S/ %8s\n", i+1, l.Name, l.Amount.StringFixed(2))
	}
	fmt.Fprintf(os.Stdout, "    %-40s S/ %8s\n", "TOTAL", r.bill.Total().StringFixed(2))
}

func (r *Runner) printInventory() {
	fmt.Fprintf(os.Stdout, "%-8s %-40s %10s %10s %12s\n", "Código", "Producto", "Stock", "Precio", "Valor")
	for _, v := range r.inventory.Valuation() {
		fmt.Fprintf(os.Stdout, "%-8s %-40s %10s %10s %12s\n",
			v.Code,
			v.Name,
			v.Stock.StringFixed(2),
			v.UnitPrice.StringFixed(2),
			v.StockValue.StringFixed(2),
		)
	}
	fmt.Fprintf(os.Stdout, "%-8s %-40s %10s %10s %12s\n", "", "TOTAL", "", "", r.inventory.TotalValue().StringFixed(2))
}

func (r *Runner) printDashboard() {
	fmt.Fprintf(os.Stdout, "Ventas cobradas:      %d\n", r.history.Len())
	fmt.Fprintf(os.Stdout, "Total YAPE:           S/ %s\n", r.history.TotalByMethod(billing.MethodYape).StringFixed(2))
	fmt.Fprintf(os.Stdout, "Total Efectivo:       S/ %s\n", r.history.TotalByMethod(billing.MethodCash).StringFixed(2))
	fmt.Fprintf(os.Stdout, "Total general:        S/ %s\n", r.history.GrandTotal().StringFixed(2))
	fmt.Fprintf(os.Stdout, "Valor de inventario:  S/ %s\n", r.inventory.TotalValue().StringFixed(2))
}

func (r *Runner) printSale(sale billing.Sale, ok bool) {
	if !ok {
		fmt.Fprintln(os.Stdout, "No hay ventas todavía.")
		return
	}
	fmt.Fprintf(os.Stdout, "%s | %s | %s (%d/%d)\n",
		sale.ID,
		sale.Timestamp.Format("02/01/2006 15:04"),
		sale.Method,
		r.history.Cursor()+1,
		r.history.Len(),
	)
	for _, l := range sale.Lines {
		fmt.Fprintf(os.Stdout, "    %-40s S/ %8s\n", l.Name, l.Amount.StringFixed(2))
	}
	fmt.Fprintf(os.Stdout, "    %-40s S/ %8s\n", "TOTAL", sale.Total.StringFixed(2))
}
