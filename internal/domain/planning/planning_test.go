package planning_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/internal/domain/planning"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRequiredQuantity(t *testing.T) {
	assertDec(t, "125", planning.RequiredQuantity(d("2.5"), 50), "2.5 × 50")
	assertDec(t, "0", planning.RequiredQuantity(d("3"), 0), "pedido vacío")
}

func TestCalculateRequirement_ConReservasDeOtrosPedidos(t *testing.T) {
	r := planning.CalculateRequirement(planning.RequirementInput{
		Material:          "Tela",
		QuantityPerUnit:   d("2"),
		OrderQuantity:     10,
		PhysicalStock:     d("30"),
		AllocatedByOthers: d("15"),
	})

	assertDec(t, "20", r.Required, "requerido")
	assertDec(t, "15", r.SoftAvailable, "disponible blando")
	assertDec(t, "5", r.Shortage, "faltante")
	assert.Equal(t, "66.67", r.UtilizationPercent.StringFixed(2))
}

func TestCalculateRequirement_SobreReservaNoSeAcota(t *testing.T) {
	r := planning.CalculateRequirement(planning.RequirementInput{
		Material:          "Botón",
		QuantityPerUnit:   d("1"),
		OrderQuantity:     5,
		PhysicalStock:     d("10"),
		AllocatedByOthers: d("25"),
	})

	assertDec(t, "-15", r.SoftAvailable, "disponible blando negativo")
	assertDec(t, "20", r.Shortage, "el faltante absorbe la sobre-reserva")
}

func TestCalculateRequirement_SinStockFisico(t *testing.T) {
	r := planning.CalculateRequirement(planning.RequirementInput{
		Material:        "Hilo",
		QuantityPerUnit: d("4"),
		OrderQuantity:   2,
		PhysicalStock:   decimal.Zero,
	})

	assertDec(t, "8", r.Shortage, "todo es faltante")
	assertDec(t, "100", r.UtilizationPercent, "utilización por defecto")
}

func TestCalculateRequirement_ReorderShortage(t *testing.T) {
	r := planning.CalculateRequirement(planning.RequirementInput{
		Material:         "Cierre",
		QuantityPerUnit:  d("1"),
		OrderQuantity:    1,
		PhysicalStock:    d("40"),
		DailyConsumption: d("10"),
		LeadTime:         5,
		SafetyStock:      d("20"),
	})

	assertDec(t, "30", r.ReorderShortage, "70 − 40")
	assertDec(t, "0", r.Shortage, "sin faltante del pedido")
}

func TestCalculateRequirement_EnCaminoNoReduceElFaltante(t *testing.T) {
	r := planning.CalculateRequirement(planning.RequirementInput{
		Material:          "Tela",
		QuantityPerUnit:   d("2"),
		OrderQuantity:     10,
		PhysicalStock:     d("10"),
		AllocatedByOthers: d("4"),
		OnOrderStock:      d("8"),
	})

	assertDec(t, "14", r.Shortage, "faltante sin contar lo comprado")
	assertDec(t, "8", r.OnOrderStock, "en camino")
	assertDec(t, "14", r.OnOrder.Available, "blando + en camino")
	assertDec(t, "6", r.OnOrder.Shortage, "faltante tras recibir")
	assert.False(t, r.OnOrder.IsAvailable)
}

func TestCheckStockAvailability(t *testing.T) {
	a := planning.CheckStockAvailability(d("10"), d("5"), d("20"))
	assertDec(t, "15", a.Available, "disponible")
	assertDec(t, "5", a.Shortage, "faltante")
	assert.False(t, a.IsAvailable)

	a = planning.CheckStockAvailability(d("10"), d("5"), d("15"))
	assertDec(t, "0", a.Shortage, "exacto")
	assert.True(t, a.IsAvailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reorden y semáforo
// ──────────────────────────────────────────────────────────────────────────────

func TestReorderLevelAndQuantity(t *testing.T) {
	level := planning.ReorderLevel(d("3"), 7, d("10"))
	assertDec(t, "31", level, "3 × 7 + 10")
	assertDec(t, "11", planning.ReorderQuantity(level, d("20")), "31 − 20")
	assertDec(t, "0", planning.ReorderQuantity(level, d("50")), "sobre el nivel")
}

func TestDaysRemaining(t *testing.T) {
	cases := []struct {
		name   string
		stock  string
		daily  string
		days   string
		status planning.AlertStatus
	}{
		{"sin stock", "0", "10", "0", planning.StatusCritical},
		{"bajo dos días", "15", "10", "1.5", planning.StatusCritical},
		{"justo dos días", "20", "10", "2", planning.StatusWarning},
		{"bajo cinco días", "40", "10", "4", planning.StatusWarning},
		{"cinco días", "50", "10", "5", planning.StatusHealthy},
		{"sin consumo", "100", "0", "999", planning.StatusHealthy},
		{"consumo negativo", "100", "-1", "999", planning.StatusHealthy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := planning.DaysRemaining(d(tc.stock), d(tc.daily))
			assertDec(t, tc.days, got.Days, "días")
			assert.Equal(t, tc.status, got.Status)
		})
	}
}

func TestEvaluateAlert_PredictivoSobrescribe(t *testing.T) {
	// 100 / 10 = 10 días (HEALTHY) pero el nivel predictivo es 10×7+50 = 120.
	a := planning.EvaluateAlert(planning.AlertInput{
		CurrentStock:     d("100"),
		ReorderLevel:     d("20"),
		DailyConsumption: d("10"),
		LeadTime:         7,
		SafetyStock:      d("50"),
	})

	assert.Equal(t, planning.StatusCritical, a.Status)
	assertDec(t, "120", a.PredictedLevel, "nivel predictivo")
	assertDec(t, "20", a.ReorderQuantity, "120 − 100")
	assert.False(t, a.BelowStaticLevel)
	assert.True(t, a.IsAlert)
}

func TestEvaluateAlert_UnionConNivelEstatico(t *testing.T) {
	// Sin consumo el semáforo es HEALTHY, pero el stock está bajo el nivel estático.
	a := planning.EvaluateAlert(planning.AlertInput{
		CurrentStock: d("5"),
		ReorderLevel: d("10"),
	})

	assert.Equal(t, planning.StatusHealthy, a.Status)
	assert.True(t, a.BelowStaticLevel)
	assert.True(t, a.IsAlert)
}

func TestEvaluateAlert_Saludable(t *testing.T) {
	a := planning.EvaluateAlert(planning.AlertInput{
		CurrentStock:     d("500"),
		ReorderLevel:     d("10"),
		DailyConsumption: d("10"),
		LeadTime:         3,
		SafetyStock:      d("5"),
	})

	assert.Equal(t, planning.StatusHealthy, a.Status)
	assert.False(t, a.IsAlert)
}

// ──────────────────────────────────────────────────────────────────────────────
// Varianzas
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateVariance(t *testing.T) {
	cases := []struct {
		name                    string
		plannedQty, actualQty   string
		plannedRate, actualRate string
		qty, price, total       string
		unfavorable             bool
	}{
		{"sin desviación", "100", "100", "10", "10", "0", "0", "0", false},
		{"exceso de cantidad", "100", "120", "10", "10", "200", "0", "200", true},
		{"sobreprecio", "100", "100", "10", "12", "0", "200", "200", true},
		{"ahorro", "100", "90", "10", "9", "-100", "-90", "-190", false},
		{"ocho decimales", "1.2345", "1.2346", "0.0001", "0.0002", "0.00000001", "0.00012346", "0.00012347", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := planning.CalculateVariance(d(tc.plannedQty), d(tc.actualQty), d(tc.plannedRate), d(tc.actualRate))
			assertDec(t, tc.qty, v.QtyVariance, "varianza de cantidad")
			assertDec(t, tc.price, v.PriceVariance, "varianza de precio")
			assertDec(t, tc.total, v.TotalVariance, "varianza total")
			require.True(t, v.QtyVariance.Add(v.PriceVariance).Equal(v.TotalVariance), "qty + price == total")
			assert.Equal(t, tc.unfavorable, v.IsUnfavorable)
		})
	}
}
