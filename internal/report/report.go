// Package report writes the end-of-day workbook: settled sales, the valued
// inventory and the stock movement summary.
package report

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bodega_voz/internal/billing"
	"bodega_voz/internal/catalog"
	"bodega_voz/internal/config"
)

const (
	sheetSales     = "Ventas"
	sheetInventory = "Inventario Valorizado"
	sheetProducts  = "Productos"
)

// placeholderSheets are kept for compatibility with the accounting template
// the workbook is imported into. Header row only.
var placeholderSheets = []struct {
	name    string
	headers []interface{}
}{
	{"Entrada_merca", []interface{}{"código", "descrip_producto", "categoria_producto", "fecha_produccion", "fecha_vcto", "caducidad_dias", "cantidad_ingreso", "codigo_vto"}},
	{"Salida_merca", []interface{}{"código", "descrip_producto", "categoria_producto", "fecha_salida", "cantidad_salida", "codigo_vto"}},
	{"Precio_venta", []interface{}{"código", "descrip_producto", "categoria_producto", "fecha_vigencia", "precio_venta"}},
	{"Costo_produc-Margen", []interface{}{"código", "descrip_producto", "categoria_producto", "fecha_ultima", "precio_costo", "stock", "inventario_valor_costos", "productos_vendidos", "margen_ganancia(%)", "ganancia_soles"}},
}

type Exporter struct {
	history   *billing.History
	inventory *catalog.Store
	userCode  string
	shop      string
	dir       string
	logger    *zap.Logger

	mu  sync.Mutex
	day string
	seq int
}

func NewExporter(cfg config.Config, history *billing.History, inventory *catalog.Store, logger *zap.Logger) *Exporter {
	return &Exporter{
		history:   history,
		inventory: inventory,
		userCode:  cfg.UserCode,
		shop:      cfg.ShopName,
		dir:       cfg.ExportDir,
		logger:    logger.Named("report"),
	}
}

// Export writes the workbook and returns its path. File names carry the user
// code, the date and a per-day sequence number, so repeated exports on the
// same day never collide.
func (e *Exporter) Export() (string, error) {
	now := time.Now()
	path := filepath.Join(e.dir, e.nextName(now))

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSales(f, now); err != nil {
		return "", err
	}
	if err := e.writeInventory(f); err != nil {
		return "", err
	}
	if err := e.writeProducts(f); err != nil {
		return "", err
	}
	for _, sheet := range placeholderSheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return "", fmt.Errorf("creating sheet %s: %w", sheet.name, err)
		}
		if err := f.SetSheetRow(sheet.name, "A1", &sheet.headers); err != nil {
			return "", fmt.Errorf("writing headers for %s: %w", sheet.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	e.logger.Info("workbook exported",
		zap.String("path", path),
		zap.Int("sales", e.history.Len()),
	)
	return path, nil
}

func (e *Exporter) nextName(now time.Time) string {
	day := now.Format("02-01-06")
	e.mu.Lock()
	defer e.mu.Unlock()
	if day != e.day {
		e.day = day
		e.seq = 0
	}
	e.seq++
	return fmt.Sprintf("%s_Repo_%s_%03d.xlsx", e.userCode, day, e.seq)
}

func (e *Exporter) writeSales(f *excelize.File, now time.Time) error {
	// The default sheet becomes the sales sheet.
	if err := f.SetSheetName(f.GetSheetName(0), sheetSales); err != nil {
		return fmt.Errorf("renaming sales sheet: %w", err)
	}

	header := []interface{}{"Usuario", "Fecha", "Producto", "Cantidad", "Unidad", "Precio Total", "Método de Pago"}
	if err := f.SetSheetRow(sheetSales, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, sale := range e.history.All() {
		for i, line := range sale.Lines {
			values := []interface{}{"", "", line.Name, line.Quantity().InexactFloat64(), string(line.Unit), line.Amount.InexactFloat64(), string(sale.Method)}
			if i == 0 {
				values[0] = e.userCode
				values[1] = sale.Timestamp.Format("02/01/2006")
			}
			if err := f.SetSheetRow(sheetSales, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (e *Exporter) writeInventory(f *excelize.File) error {
	if _, err := f.NewSheet(sheetInventory); err != nil {
		return fmt.Errorf("creating inventory sheet: %w", err)
	}

	header := []interface{}{"Código", "Producto", "Categoría", "Proveedor", "Precio Unitario", "Unidad", "Stock", "Valor Stock", "Próxima Baja", "Valor Pérdida", "Valor Resultante", "Vencimiento"}
	if err := f.SetSheetRow(sheetInventory, "A1", &header); err != nil {
		return err
	}

	for i, v := range e.inventory.Valuation() {
		values := []interface{}{
			v.Code,
			v.Name,
			v.Category,
			v.Supplier,
			v.UnitPrice.InexactFloat64(),
			string(v.Unit),
			v.Stock.InexactFloat64(),
			v.StockValue.InexactFloat64(),
			v.NextDropStock.InexactFloat64(),
			v.LossValue.InexactFloat64(),
			v.ResultingValue.InexactFloat64(),
			v.ExpiryDate,
		}
		if err := f.SetSheetRow(sheetInventory, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	total := e.inventory.TotalValue()
	rows := len(e.inventory.All()) + 2
	summary := []interface{}{"", "", "", "", "", "", "", "", "", "Total", total.InexactFloat64()}
	return f.SetSheetRow(sheetInventory, fmt.Sprintf("A%d", rows), &summary)
}

func (e *Exporter) writeProducts(f *excelize.File) error {
	if _, err := f.NewSheet(sheetProducts); err != nil {
		return fmt.Errorf("creating products sheet: %w", err)
	}

	header := []interface{}{"Código", "Producto", "Stock Inicial", "Salidas", "Stock Actual"}
	if err := f.SetSheetRow(sheetProducts, "A1", &header); err != nil {
		return err
	}

	for i, entry := range e.inventory.All() {
		out := entry.InitialStock.Sub(entry.Stock)
		values := []interface{}{
			entry.Code,
			entry.Name,
			entry.InitialStock.InexactFloat64(),
			out.InexactFloat64(),
			entry.Stock.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetProducts, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}
