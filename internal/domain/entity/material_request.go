package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain"
)

// RequestStatus estado de una solicitud de materiales.
type RequestStatus string

const (
	RequestPending         RequestStatus = "PENDING"
	RequestVerifiedByStaff RequestStatus = "VERIFIED_BY_STAFF"
	RequestApproved        RequestStatus = "APPROVED"
	RequestOrdered         RequestStatus = "ORDERED"
	RequestReceived        RequestStatus = "RECEIVED"
)

// OpenRequestStatuses son los estados cuyos ítems todavía comprometen stock (net available).
var OpenRequestStatuses = []RequestStatus{RequestPending, RequestVerifiedByStaff}

// ItemStatus estado de cada línea de la solicitud.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemOrdered  ItemStatus = "ORDERED"
	ItemReceived ItemStatus = "RECEIVED"
)

// MaterialRequest solicitud de materiales. OrderID nil = reposición pura.
type MaterialRequest struct {
	ID           string
	OrderID      *string
	Status       RequestStatus
	AssignedToID *string
	AssignedAt   *time.Time
	Items        []MaterialRequestItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MaterialRequestItem línea de la solicitud. ShortageQty es la cantidad a comprar.
type MaterialRequestItem struct {
	ID                  string
	MaterialRequestID   string
	ItemName            string
	RequiredQty         decimal.Decimal
	ShortageQty         decimal.Decimal
	ActualPhysicalCount *decimal.Decimal
	Status              ItemStatus
}

func (r *MaterialRequest) conflict(action string) error {
	return fmt.Errorf("solicitud %s en estado %s no admite %s: %w", r.ID, r.Status, action, domain.ErrConflict)
}

// IsAssignedTo indica si la solicitud está asignada al usuario.
func (r *MaterialRequest) IsAssignedTo(userID string) bool {
	return r.AssignedToID != nil && *r.AssignedToID == userID
}

// Item busca una línea por ID.
func (r *MaterialRequest) Item(itemID string) (*MaterialRequestItem, bool) {
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			return &r.Items[i], true
		}
	}
	return nil, false
}

// Assign asigna la verificación física a un empleado de materiales.
func (r *MaterialRequest) Assign(userID string, now time.Time) error {
	if r.Status != RequestPending {
		return r.conflict("asignación")
	}
	r.AssignedToID = &userID
	r.AssignedAt = &now
	r.UpdatedAt = now
	return nil
}

// Unassign libera la asignación.
func (r *MaterialRequest) Unassign(now time.Time) error {
	if r.Status != RequestPending {
		return r.conflict("desasignación")
	}
	r.AssignedToID = nil
	r.AssignedAt = nil
	r.UpdatedAt = now
	return nil
}

// Verify registra los conteos físicos (uno por línea) y pasa a VERIFIED_BY_STAFF.
// counts es itemID → conteo; debe cubrir todas las líneas y solo ellas.
func (r *MaterialRequest) Verify(counts map[string]decimal.Decimal, now time.Time) error {
	if r.Status != RequestPending {
		return r.conflict("verificación")
	}
	if len(counts) != len(r.Items) {
		return fmt.Errorf("se esperaban %d conteos, llegaron %d: %w", len(r.Items), len(counts), domain.ErrInvalidInput)
	}
	for itemID, c := range counts {
		if _, ok := r.Item(itemID); !ok {
			return fmt.Errorf("ítem %s no pertenece a la solicitud %s: %w", itemID, r.ID, domain.ErrInvalidInput)
		}
		if c.IsNegative() {
			return fmt.Errorf("conteo negativo para ítem %s: %w", itemID, domain.ErrInvalidInput)
		}
	}
	for i := range r.Items {
		c := counts[r.Items[i].ID]
		r.Items[i].ActualPhysicalCount = &c
	}
	r.Status = RequestVerifiedByStaff
	r.UpdatedAt = now
	return nil
}

// Approve VERIFIED_BY_STAFF → APPROVED.
func (r *MaterialRequest) Approve(now time.Time) error {
	if r.Status != RequestVerifiedByStaff {
		return r.conflict("aprobación")
	}
	r.Status = RequestApproved
	r.UpdatedAt = now
	return nil
}

// MarkItemOrdered pasa una línea a ORDERED. La solicitud avanza a ORDERED
// solo cuando todas sus líneas están ORDERED.
func (r *MaterialRequest) MarkItemOrdered(itemID string, now time.Time) (*MaterialRequestItem, error) {
	if r.Status != RequestApproved {
		return nil, r.conflict("órdenes de compra")
	}
	item, ok := r.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("ítem %s de la solicitud %s: %w", itemID, r.ID, domain.ErrNotFound)
	}
	if item.Status != ItemPending {
		return nil, fmt.Errorf("ítem %s ya está en %s: %w", itemID, item.Status, domain.ErrConflict)
	}
	item.Status = ItemOrdered
	if r.allItems(ItemOrdered) {
		r.Status = RequestOrdered
	}
	r.UpdatedAt = now
	return item, nil
}

// MarkItemReceived pasa una línea ORDERED a RECEIVED. La solicitud pasa a RECEIVED
// cuando todas sus líneas están RECEIVED.
func (r *MaterialRequest) MarkItemReceived(itemID string, now time.Time) (*MaterialRequestItem, error) {
	if r.Status != RequestApproved && r.Status != RequestOrdered {
		return nil, r.conflict("recepción")
	}
	item, ok := r.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("ítem %s de la solicitud %s: %w", itemID, r.ID, domain.ErrNotFound)
	}
	if item.Status != ItemOrdered {
		return nil, fmt.Errorf("ítem %s en estado %s no puede recibirse: %w", itemID, item.Status, domain.ErrConflict)
	}
	item.Status = ItemReceived
	if r.allItems(ItemReceived) {
		r.Status = RequestReceived
	}
	r.UpdatedAt = now
	return item, nil
}

// AllReceived indica que no queda ninguna línea pendiente de recepción.
func (r *MaterialRequest) AllReceived() bool {
	return r.allItems(ItemReceived)
}

func (r *MaterialRequest) allItems(s ItemStatus) bool {
	for _, it := range r.Items {
		if it.Status != s {
			return false
		}
	}
	return true
}

// TotalShortage suma de faltantes de la solicitud (cantidad comprable).
func (r *MaterialRequest) TotalShortage() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.ShortageQty)
	}
	return total
}
