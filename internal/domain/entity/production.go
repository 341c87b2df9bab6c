package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain"
)

// ProductionStatus reutiliza los estados de pedido relevantes para producción.
type ProductionStatus string

const (
	ProductionInProgress ProductionStatus = "IN_PRODUCTION"
	ProductionCompleted  ProductionStatus = "COMPLETED"
)

// Production corrida de producción de un pedido (1:1).
type Production struct {
	ID          string
	OrderID     string
	Status      ProductionStatus
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Complete IN_PRODUCTION → COMPLETED.
func (p *Production) Complete(now time.Time) error {
	if p.Status != ProductionInProgress {
		return fmt.Errorf("producción %s ya está en %s: %w", p.ID, p.Status, domain.ErrConflict)
	}
	p.Status = ProductionCompleted
	p.CompletedAt = &now
	return nil
}

// ActualConsumption consumo real de un material en una corrida.
type ActualConsumption struct {
	ID           string
	ProductionID string
	ItemName     string
	ActualQty    decimal.Decimal
	ActualRate   decimal.Decimal
}
