package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/procura-api/internal/domain"
)

// OrderStatus estado de un pedido de venta.
type OrderStatus string

const (
	OrderPending           OrderStatus = "PENDING"
	OrderCalculating       OrderStatus = "CALCULATING"
	OrderMaterialRequested OrderStatus = "MATERIAL_REQUESTED"
	OrderInProduction      OrderStatus = "IN_PRODUCTION"
	OrderCompleted         OrderStatus = "COMPLETED"
	OrderCancelled         OrderStatus = "CANCELLED"
)

// AllocatingStatuses son los estados cuyos pedidos reservan material de forma blanda.
var AllocatingStatuses = []OrderStatus{OrderCalculating, OrderMaterialRequested}

// OpenOrderStatuses estados que cuentan como trabajo pendiente del planificador asignado.
var OpenOrderStatuses = []OrderStatus{OrderPending, OrderCalculating, OrderMaterialRequested, OrderInProduction}

// Terminal indica si el estado ya no admite transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order pedido registrado por Ventas y planificado por PPC.
type Order struct {
	ID           string
	CustomerName string
	ProductName  string
	Quantity     int
	DeliveryDate time.Time
	Status       OrderStatus
	AssignedToID *string
	AssignedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o *Order) transition(from []OrderStatus, to OrderStatus, now time.Time) error {
	for _, s := range from {
		if o.Status == s {
			o.Status = to
			o.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("pedido %s en estado %s no puede pasar a %s: %w", o.ID, o.Status, to, domain.ErrConflict)
}

// Lock bloquea el pedido para el cálculo de requerimientos (PENDING → CALCULATING).
func (o *Order) Lock(now time.Time) error {
	return o.transition([]OrderStatus{OrderPending}, OrderCalculating, now)
}

// MarkMaterialRequested registra que los materiales fueron solicitados o reservados.
func (o *Order) MarkMaterialRequested(now time.Time) error {
	return o.transition([]OrderStatus{OrderCalculating}, OrderMaterialRequested, now)
}

// StartProduction MATERIAL_REQUESTED → IN_PRODUCTION.
func (o *Order) StartProduction(now time.Time) error {
	return o.transition([]OrderStatus{OrderMaterialRequested}, OrderInProduction, now)
}

// Complete IN_PRODUCTION → COMPLETED.
func (o *Order) Complete(now time.Time) error {
	return o.transition([]OrderStatus{OrderInProduction}, OrderCompleted, now)
}

// Cancel permite cancelar mientras el pedido no haya entrado a producción.
func (o *Order) Cancel(now time.Time) error {
	return o.transition([]OrderStatus{OrderPending, OrderCalculating, OrderMaterialRequested}, OrderCancelled, now)
}

// Assign asigna el pedido a un planificador.
func (o *Order) Assign(userID string, now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("pedido %s en estado %s: %w", o.ID, o.Status, domain.ErrConflict)
	}
	o.AssignedToID = &userID
	o.AssignedAt = &now
	o.UpdatedAt = now
	return nil
}

// Unassign libera la asignación.
func (o *Order) Unassign(now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("pedido %s en estado %s: %w", o.ID, o.Status, domain.ErrConflict)
	}
	o.AssignedToID = nil
	o.AssignedAt = nil
	o.UpdatedAt = now
	return nil
}

// IsAssignedTo indica si el pedido está asignado al usuario.
func (o *Order) IsAssignedTo(userID string) bool {
	return o.AssignedToID != nil && *o.AssignedToID == userID
}
