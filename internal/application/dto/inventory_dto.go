package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItemDTO saldo de un material con su evaluación de reorden.
type InventoryItemDTO struct {
	ID                    string          `json:"id"`
	ItemName              string          `json:"item_name"`
	Unit                  string          `json:"unit"`
	CurrentStock          decimal.Decimal `json:"current_stock"`
	OnOrderStock          decimal.Decimal `json:"on_order_stock"`
	ReorderLevel          decimal.Decimal `json:"reorder_level"`
	DailyConsumption      decimal.Decimal `json:"daily_consumption"`
	LeadTime              int             `json:"lead_time"`
	SafetyStock           decimal.Decimal `json:"safety_stock"`
	DaysRemaining         decimal.Decimal `json:"days_remaining"`
	Status                string          `json:"status"`
	PredictedReorderLevel decimal.Decimal `json:"predicted_reorder_level"`
	ReorderQuantity       decimal.Decimal `json:"reorder_quantity"`
	IsAlert               bool            `json:"is_alert"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// InventoryListResponse saldos de inventario.
type InventoryListResponse struct {
	Items []InventoryItemDTO `json:"items"`
}

// BOMEntryDTO línea de la lista de materiales.
type BOMEntryDTO struct {
	ID              string          `json:"id"`
	ProductName     string          `json:"product_name"`
	ItemName        string          `json:"item_name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	PlannedRate     decimal.Decimal `json:"planned_rate"`
	Unit            string          `json:"unit"`
}

// BOMResponse BOM de un producto.
type BOMResponse struct {
	ProductName string        `json:"product_name"`
	Items       []BOMEntryDTO `json:"items"`
}

// BOMProductsResponse productos con BOM registrado.
type BOMProductsResponse struct {
	Products []string `json:"products"`
}
