package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
// Quantity vacío = faltante de la línea; si viene debe coincidir con él.
type CreatePurchaseOrderRequest struct {
	MaterialRequestID     string           `json:"material_request_id" validate:"required"`
	MaterialRequestItemID string           `json:"material_request_item_id" validate:"required"`
	Quantity              *decimal.Decimal `json:"quantity,omitempty"`
	Rate                  decimal.Decimal  `json:"rate"`
	SupplierName          string           `json:"supplier_name" validate:"required,max=200"`
	ExpectedDate          string           `json:"expected_date" validate:"required,datetime=2006-01-02"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                    string          `json:"id"`
	MaterialRequestID     string          `json:"material_request_id"`
	MaterialRequestItemID string          `json:"material_request_item_id"`
	ItemName              string          `json:"item_name"`
	Quantity              decimal.Decimal `json:"quantity"`
	Rate                  decimal.Decimal `json:"rate"`
	Amount                decimal.Decimal `json:"amount"`
	SupplierName          string          `json:"supplier_name"`
	ExpectedDate          string          `json:"expected_date"`
	Status                string          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	ReceivedAt            *time.Time      `json:"received_at,omitempty"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// PurchaseOrderListQuery filtros de GET /api/purchase-orders.
type PurchaseOrderListQuery struct {
	PageRequest
	Status            string `query:"status" validate:"omitempty,oneof=ORDERED RECEIVED"`
	MaterialRequestID string `query:"material_request_id"`
}
