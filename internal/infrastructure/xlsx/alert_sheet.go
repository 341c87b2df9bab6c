// Package xlsx exporta las alertas de inventario a Excel (excelize).
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/planning"
)

var _ planning.AlertSheetGenerator = (*AlertSheetGenerator)(nil)

const sheetName = "Alertas"

// AlertSheetGenerator implementa planning.AlertSheetGenerator.
type AlertSheetGenerator struct{}

// NewAlertSheetGenerator construye el generador.
func NewAlertSheetGenerator() *AlertSheetGenerator { return &AlertSheetGenerator{} }

// GenerateAlertSheet arma un libro con una fila por material en alerta, en el orden recibido.
// La fila 1 lleva la fecha de generación y la 2 el encabezado.
func (g *AlertSheetGenerator) GenerateAlertSheet(items []dto.InventoryItemDTO, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A1", "Alertas de inventario "+generatedAt.Format("2006-01-02 15:04")); err != nil {
		return nil, fmt.Errorf("xlsx: título: %w", err)
	}

	header := []interface{}{
		"material",
		"unidad",
		"estado",
		"stock_actual",
		"en_camino",
		"consumo_diario",
		"dias_restantes",
		"lead_time",
		"stock_seguridad",
		"nivel_reorden",
		"nivel_predictivo",
		"cantidad_sugerida",
	}
	if err := f.SetSheetRow(sheetName, "A2", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 2, 2, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}

	row := 3
	for _, it := range items {
		excelRow := []interface{}{
			it.ItemName,
			it.Unit,
			it.Status,
			it.CurrentStock.InexactFloat64(),
			it.OnOrderStock.InexactFloat64(),
			it.DailyConsumption.InexactFloat64(),
			it.DaysRemaining.InexactFloat64(),
			it.LeadTime,
			it.SafetyStock.InexactFloat64(),
			it.ReorderLevel.InexactFloat64(),
			it.PredictedReorderLevel.InexactFloat64(),
			it.ReorderQuantity.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
