package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InternalSupplier proveedor reportado cuando el material salió del inventario sin compra.
const InternalSupplier = "Internal Inventory"

// VarianceDTO varianza de un material con sus importes derivados.
type VarianceDTO struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	ItemName      string          `json:"item_name"`
	PlannedQty    decimal.Decimal `json:"planned_qty"`
	ActualQty     decimal.Decimal `json:"actual_qty"`
	PlannedRate   decimal.Decimal `json:"planned_rate"`
	ActualRate    decimal.Decimal `json:"actual_rate"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	QtyVariance   decimal.Decimal `json:"qty_variance"`
	PriceVariance decimal.Decimal `json:"price_variance"`
	TotalVariance decimal.Decimal `json:"total_variance"`
	IsUnfavorable bool            `json:"is_unfavorable"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VarianceListResponse lista paginada de varianzas.
type VarianceListResponse struct {
	Items []VarianceDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}

// OrderVarianceReport varianzas de un pedido con totales.
type OrderVarianceReport struct {
	OrderID       string          `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Lines         []VarianceDTO   `json:"lines"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	QtyVariance   decimal.Decimal `json:"qty_variance"`
	PriceVariance decimal.Decimal `json:"price_variance"`
	TotalVariance decimal.Decimal `json:"total_variance"`
	IsUnfavorable bool            `json:"is_unfavorable"`
}

// ManagementStatsDTO tablero de gerencia.
type ManagementStatsDTO struct {
	TotalOrders           int             `json:"total_orders"`
	OrdersByStatus        map[string]int  `json:"orders_by_status"`
	OpenMaterialRequests  int             `json:"open_material_requests"`
	PendingPurchaseOrders int             `json:"pending_purchase_orders"`
	InventoryAlerts       int             `json:"inventory_alerts"`
	TotalVariance         decimal.Decimal `json:"total_variance"`
	UnfavorableVariances  int             `json:"unfavorable_variances"`
}

// TeamMemberDTO empleado con su carga de trabajo abierta.
type TeamMemberDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	OpenAssignments int    `json:"open_assignments"`
}
