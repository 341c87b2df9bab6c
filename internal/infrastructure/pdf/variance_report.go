// Package pdf implementa el reporte de varianzas plan vs. real de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Pedido          │  Fecha de generación     │
//	│  PEDIDO: Cliente / Producto / Cantidad                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Plan | Real | Tarifas | Varianzas | Prov. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Plan / Real / Var. cantidad / Var. precio / Total  │
//	│  FOOTER: Leyenda favorable / desfavorable                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/dto"
)

var _ analytics.VarianceReportGenerator = (*VarianceReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// VarianceReportGenerator implementa analytics.VarianceReportGenerator usando Maroto v2.
type VarianceReportGenerator struct {
	printer *message.Printer
}

// NewVarianceReportGenerator construye el generador. Los importes se formatean en es-CO.
func NewVarianceReportGenerator() *VarianceReportGenerator {
	return &VarianceReportGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateVarianceReport genera el PDF y devuelve sus bytes.
func (g *VarianceReportGenerator) GenerateVarianceReport(report *dto.OrderVarianceReport, generatedAt time.Time) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de varianzas "+report.OrderID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report, generatedAt))
	m.AddRows(orderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(report.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.OrderVarianceReport, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE VARIANZAS DE MATERIALES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido: "+report.OrderID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func orderRow(report *dto.OrderVarianceReport) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s   |   Producto: %s   |   Cantidad: %d",
				nonEmpty(report.CustomerName, "-"), report.ProductName, report.Quantity,
			), props.Text{Size: 9, Top: 2}),
		),
	)
}

// columnas del grid de 12: material 2, cantidades y tarifas 1 c/u, var. cantidad 1,
// var. precio 1, var. total 2, proveedor 2.
var columns = []struct {
	label string
	size  int
	align align.Type
}{
	{"Material", 2, align.Left},
	{"Cant. plan", 1, align.Right},
	{"Cant. real", 1, align.Right},
	{"Tarifa plan", 1, align.Right},
	{"Tarifa real", 1, align.Right},
	{"Var. cant.", 1, align.Right},
	{"Var. precio", 1, align.Right},
	{"Var. total", 2, align.Right},
	{"Proveedor", 2, align.Left},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func (g *VarianceReportGenerator) tableRows(lines []dto.VarianceDTO) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		values := []string{
			l.ItemName,
			g.number(l.PlannedQty),
			g.number(l.ActualQty),
			g.money(l.PlannedRate),
			g.money(l.ActualRate),
			g.money(l.QtyVariance),
			g.money(l.PriceVariance),
			g.money(l.TotalVariance),
			l.SupplierName,
		}
		cols := make([]core.Col, 0, len(columns))
		for i, c := range columns {
			p := props.Text{Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1}
			if c.label == "Var. total" {
				p.Style = fontstyle.Bold
				p.Color = varianceColor(l.TotalVariance)
			}
			cols = append(cols, col.New(c.size).Add(text.New(values[i], p)))
		}
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

func (g *VarianceReportGenerator) totalsRow(report *dto.OrderVarianceReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	verdict := "FAVORABLE"
	if report.IsUnfavorable {
		verdict = "DESFAVORABLE"
	}

	return row.New(30).Add(
		col.New(6),
		col.New(3).Add(
			label("Costo planificado:"),
			label("Costo real:"),
			label("Varianza por cantidad:"),
			label("Varianza por precio:"),
			text.New("VARIANZA TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 20,
			}),
		),
		col.New(3).Add(
			value(g.money(report.PlannedAmount)),
			value(g.money(report.ActualAmount)),
			value(g.money(report.QtyVariance)),
			value(g.money(report.PriceVariance)),
			text.New(g.money(report.TotalVariance)+" "+verdict, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: varianceColor(report.TotalVariance), Right: 1, Top: 20,
			}),
		),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Varianza positiva = sobrecosto (desfavorable). Var. cantidad = (real − plan) × tarifa plan; "+
				"var. precio = (tarifa real − tarifa plan) × cantidad real.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func varianceColor(v decimal.Decimal) *props.Color {
	if v.IsPositive() {
		return colorRed
	}
	return colorGreen
}

func (g *VarianceReportGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func (g *VarianceReportGenerator) number(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
