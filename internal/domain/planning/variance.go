package planning

import "github.com/shopspring/decimal"

// VarianceResult descomposición de la desviación de costo.
// TotalVariance > 0 es sobrecosto (desfavorable); < 0 es ahorro.
type VarianceResult struct {
	PlannedAmount decimal.Decimal
	ActualAmount  decimal.Decimal
	QtyVariance   decimal.Decimal
	PriceVariance decimal.Decimal
	TotalVariance decimal.Decimal
	IsUnfavorable bool
}

// CalculateVariance separa el efecto cantidad (a tarifa planificada) del efecto precio
// (a volumen real). QtyVariance + PriceVariance == TotalVariance.
func CalculateVariance(plannedQty, actualQty, plannedRate, actualRate decimal.Decimal) VarianceResult {
	plannedAmount := plannedQty.Mul(plannedRate)
	actualAmount := actualQty.Mul(actualRate)
	total := actualAmount.Sub(plannedAmount)
	return VarianceResult{
		PlannedAmount: plannedAmount,
		ActualAmount:  actualAmount,
		QtyVariance:   actualQty.Sub(plannedQty).Mul(plannedRate),
		PriceVariance: actualRate.Sub(plannedRate).Mul(actualQty),
		TotalVariance: total,
		IsUnfavorable: total.IsPositive(),
	}
}
