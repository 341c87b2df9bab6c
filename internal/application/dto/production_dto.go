package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActualConsumptionDTO consumo real de un material en la corrida.
type ActualConsumptionDTO struct {
	ItemName   string           `json:"item_name" validate:"required"`
	ActualQty  *decimal.Decimal `json:"actual_qty" validate:"required"`
	ActualRate *decimal.Decimal `json:"actual_rate" validate:"required"`
}

// CompleteProductionRequest body para POST /api/production/{id}/complete.
type CompleteProductionRequest struct {
	Consumption []ActualConsumptionDTO `json:"consumption" validate:"required,min=1,dive"`
}

// ProductionResponse salida de una corrida de producción.
type ProductionResponse struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	ProductName string     `json:"product_name,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CompleteProductionResponse corrida cerrada con las varianzas generadas.
type CompleteProductionResponse struct {
	Production ProductionResponse `json:"production"`
	Variances  []VarianceDTO      `json:"variances"`
}
