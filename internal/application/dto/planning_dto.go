package dto

import "github.com/shopspring/decimal"

// MaterialRequirementDTO requerimiento calculado para un material del BOM.
type MaterialRequirementDTO struct {
	Material           string          `json:"material"`
	Unit               string          `json:"unit"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
	Required           decimal.Decimal `json:"required"`
	PhysicalStock      decimal.Decimal `json:"physical_stock"`
	SoftAvailable      decimal.Decimal `json:"soft_available"`
	Shortage           decimal.Decimal `json:"shortage"`
	ReorderShortage    decimal.Decimal `json:"reorder_shortage"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"` // 2 decimales
	OnOrderStock       decimal.Decimal `json:"on_order_stock"`
	AvailableOnOrder   decimal.Decimal `json:"available_with_on_order"` // disponible blando + en camino
	ShortageOnOrder    decimal.Decimal `json:"shortage_after_on_order"`
}

// OrderRequirementsResponse salida de GET /api/ppc/orders/{id}/requirements.
type OrderRequirementsResponse struct {
	OrderID     string                   `json:"order_id"`
	ProductName string                   `json:"product_name"`
	Quantity    int                      `json:"quantity"`
	Status      string                   `json:"status"`
	HasShortage bool                     `json:"has_shortage"`
	Materials   []MaterialRequirementDTO `json:"materials"`
}

// RequestMaterialsResponse resultado de solicitar materiales para un pedido.
// MaterialRequest es nil cuando ningún material tiene faltante.
type RequestMaterialsResponse struct {
	Order           OrderResponse            `json:"order"`
	MaterialRequest *MaterialRequestResponse `json:"material_request"`
}
