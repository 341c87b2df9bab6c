package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequestItemDTO línea de una solicitud.
// LiveShortage y NetAvailable solo se llenan en los listados que los calculan.
type MaterialRequestItemDTO struct {
	ID                  string           `json:"id"`
	ItemName            string           `json:"item_name"`
	RequiredQty         decimal.Decimal  `json:"required_qty"`
	ShortageQty         decimal.Decimal  `json:"shortage_qty"`
	ActualPhysicalCount *decimal.Decimal `json:"actual_physical_count"`
	Status              string           `json:"status"`
	CurrentStock        *decimal.Decimal `json:"current_stock,omitempty"`
	LiveShortage        *decimal.Decimal `json:"live_shortage,omitempty"`
	NetAvailable        *decimal.Decimal `json:"net_available,omitempty"`
}

// MaterialRequestResponse salida de una solicitud con sus líneas.
type MaterialRequestResponse struct {
	ID           string                   `json:"id"`
	OrderID      *string                  `json:"order_id"`
	Status       string                   `json:"status"`
	AssignedToID *string                  `json:"assigned_to_id,omitempty"`
	AssignedAt   *time.Time               `json:"assigned_at,omitempty"`
	Items        []MaterialRequestItemDTO `json:"items"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// MaterialRequestListResponse lista paginada de solicitudes.
type MaterialRequestListResponse struct {
	Items []MaterialRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// MaterialRequestListQuery filtros de GET /api/material-requests.
type MaterialRequestListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=PENDING VERIFIED_BY_STAFF APPROVED ORDERED RECEIVED"`
}

// ReplenishmentItemRequest material a reponer. Quantity vacío = nivel de reorden predictivo.
type ReplenishmentItemRequest struct {
	ItemName string           `json:"item_name" validate:"required"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// CreateReplenishmentRequest body para POST /api/material-requests (sin pedido asociado).
type CreateReplenishmentRequest struct {
	Items []ReplenishmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PhysicalCountDTO conteo físico de una línea.
type PhysicalCountDTO struct {
	ItemID string           `json:"item_id" validate:"required"`
	Count  *decimal.Decimal `json:"count" validate:"required"`
}

// VerifyRequest body para POST /api/material-requests/{id}/verify.
type VerifyRequest struct {
	Counts []PhysicalCountDTO `json:"counts" validate:"required,min=1,dive"`
}
