package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain"
)

// PurchaseStatus estado de una orden de compra.
type PurchaseStatus string

const (
	PurchaseOrdered  PurchaseStatus = "ORDERED"
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// PurchaseOrder compra a proveedor de una línea de solicitud (una OC por línea).
type PurchaseOrder struct {
	ID                    string
	MaterialRequestID     string
	MaterialRequestItemID string
	ItemName              string
	Quantity              decimal.Decimal
	Rate                  decimal.Decimal
	SupplierName          string
	ExpectedDate          time.Time
	Status                PurchaseStatus
	CreatedAt             time.Time
	ReceivedAt            *time.Time
}

// Amount valor total de la compra.
func (p *PurchaseOrder) Amount() decimal.Decimal {
	return p.Quantity.Mul(p.Rate)
}

// Receive ORDERED → RECEIVED. Recibir dos veces es un conflicto.
func (p *PurchaseOrder) Receive(now time.Time) error {
	if p.Status != PurchaseOrdered {
		return fmt.Errorf("orden de compra %s ya está en %s: %w", p.ID, p.Status, domain.ErrConflict)
	}
	p.Status = PurchaseReceived
	p.ReceivedAt = &now
	return nil
}
