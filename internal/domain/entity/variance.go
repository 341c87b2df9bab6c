package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variance desviación plan vs. real de un material de un pedido. Se escribe una sola vez,
// al completar la producción. TotalVariance > 0 es sobrecosto (desfavorable).
type Variance struct {
	ID            string
	OrderID       string
	ItemName      string
	PlannedQty    decimal.Decimal
	ActualQty     decimal.Decimal
	PlannedRate   decimal.Decimal
	ActualRate    decimal.Decimal
	QtyVariance   decimal.Decimal
	PriceVariance decimal.Decimal
	TotalVariance decimal.Decimal
	CreatedAt     time.Time
}
