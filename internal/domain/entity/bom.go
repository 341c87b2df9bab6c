package entity

import "github.com/shopspring/decimal"

// BOMEntry línea de la lista de materiales: cuánto material consume una unidad de producto
// y a qué tarifa planificada. Única por (ProductName, ItemName).
type BOMEntry struct {
	ID              string
	ProductName     string
	ItemName        string
	QuantityPerUnit decimal.Decimal
	PlannedRate     decimal.Decimal
	Unit            string
}
