package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem saldo de un material en el almacén.
// CurrentStock puede ser negativo ("deuda de almacén") cuando producción consume más de lo recibido.
type InventoryItem struct {
	ID               string
	ItemName         string
	CurrentStock     decimal.Decimal
	OnOrderStock     decimal.Decimal
	ReorderLevel     decimal.Decimal // nivel estático configurado
	DailyConsumption decimal.Decimal
	LeadTime         int // días
	SafetyStock      decimal.Decimal
	Unit             string
	UpdatedAt        time.Time
}

// Receive suma una recepción de compra: +stock físico, −stock en camino (piso 0).
func (i *InventoryItem) Receive(qty decimal.Decimal, now time.Time) {
	i.CurrentStock = i.CurrentStock.Add(qty)
	i.OnOrderStock = decimal.Max(decimal.Zero, i.OnOrderStock.Sub(qty))
	i.UpdatedAt = now
}

// PlaceOnOrder registra cantidad comprada pendiente de recibir.
func (i *InventoryItem) PlaceOnOrder(qty decimal.Decimal, now time.Time) {
	i.OnOrderStock = i.OnOrderStock.Add(qty)
	i.UpdatedAt = now
}

// Consume descuenta consumo real de producción; no valida saldo.
func (i *InventoryItem) Consume(qty decimal.Decimal, now time.Time) {
	i.CurrentStock = i.CurrentStock.Sub(qty)
	i.UpdatedAt = now
}
