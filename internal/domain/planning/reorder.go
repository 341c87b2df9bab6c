package planning

import "github.com/shopspring/decimal"

// AlertStatus semáforo de inventario.
type AlertStatus string

const (
	StatusCritical AlertStatus = "CRITICAL"
	StatusWarning  AlertStatus = "WARNING"
	StatusHealthy  AlertStatus = "HEALTHY"
)

var (
	// InfiniteDays valor centinela cuando no hay consumo diario.
	InfiniteDays = decimal.NewFromInt(999)

	criticalDays = decimal.NewFromInt(2)
	warningDays  = decimal.NewFromInt(5)
)

// ReorderLevel nivel de reorden predictivo: consumo diario × lead time + stock de seguridad.
func ReorderLevel(dailyConsumption decimal.Decimal, leadTime int, safetyStock decimal.Decimal) decimal.Decimal {
	return dailyConsumption.Mul(decimal.NewFromInt(int64(leadTime))).Add(safetyStock)
}

// ReorderQuantity cantidad para volver al nivel de reorden, acotada en cero.
func ReorderQuantity(reorderLevel, currentStock decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, reorderLevel.Sub(currentStock))
}

// DaysRemainingResult días de cobertura y su semáforo.
type DaysRemainingResult struct {
	Days   decimal.Decimal
	Status AlertStatus
}

// DaysRemaining días de cobertura del stock actual.
// Consumo ≤ 0 devuelve el centinela 999 / HEALTHY (sin división por cero).
func DaysRemaining(currentStock, dailyConsumption decimal.Decimal) DaysRemainingResult {
	if !dailyConsumption.IsPositive() {
		return DaysRemainingResult{Days: InfiniteDays, Status: StatusHealthy}
	}
	days := currentStock.Div(dailyConsumption)
	status := StatusHealthy
	switch {
	case days.LessThan(criticalDays):
		status = StatusCritical
	case days.LessThan(warningDays):
		status = StatusWarning
	}
	return DaysRemainingResult{Days: days, Status: status}
}

// AlertInput niveles de un material.
type AlertInput struct {
	CurrentStock     decimal.Decimal
	ReorderLevel     decimal.Decimal // estático
	DailyConsumption decimal.Decimal
	LeadTime         int
	SafetyStock      decimal.Decimal
}

// Alert evaluación completa de un material.
type Alert struct {
	DaysRemaining    decimal.Decimal
	Status           AlertStatus
	PredictedLevel   decimal.Decimal
	ReorderQuantity  decimal.Decimal
	BelowStaticLevel bool
	IsAlert          bool
}

// EvaluateAlert aplica el semáforo por días y lo sobrescribe con CRITICAL cuando el stock
// está bajo el nivel predictivo. El material es alerta si el estado no es HEALTHY
// o si está bajo su nivel estático (unión de ambos umbrales).
func EvaluateAlert(in AlertInput) Alert {
	dr := DaysRemaining(in.CurrentStock, in.DailyConsumption)
	predicted := ReorderLevel(in.DailyConsumption, in.LeadTime, in.SafetyStock)

	status := dr.Status
	if in.CurrentStock.LessThan(predicted) {
		status = StatusCritical
	}
	below := in.CurrentStock.LessThan(in.ReorderLevel)
	return Alert{
		DaysRemaining:    dr.Days,
		Status:           status,
		PredictedLevel:   predicted,
		ReorderQuantity:  ReorderQuantity(predicted, in.CurrentStock),
		BelowStaticLevel: below,
		IsAlert:          status != StatusHealthy || below,
	}
}
