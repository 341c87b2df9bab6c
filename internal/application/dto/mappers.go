package dto

import (
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/planning"
)

// FromOrder construye la salida HTTP de un pedido.
func FromOrder(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		ProductName:  o.ProductName,
		Quantity:     o.Quantity,
		DeliveryDate: o.DeliveryDate.Format(DateLayout),
		Status:       string(o.Status),
		AssignedToID: o.AssignedToID,
		AssignedAt:   o.AssignedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// FromOrders mapea una lista de pedidos.
func FromOrders(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, FromOrder(o))
	}
	return out
}

// FromMaterialRequest construye la salida de una solicitud con sus líneas.
func FromMaterialRequest(r *entity.MaterialRequest) MaterialRequestResponse {
	items := make([]MaterialRequestItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, MaterialRequestItemDTO{
			ID:                  it.ID,
			ItemName:            it.ItemName,
			RequiredQty:         it.RequiredQty,
			ShortageQty:         it.ShortageQty,
			ActualPhysicalCount: it.ActualPhysicalCount,
			Status:              string(it.Status),
		})
	}
	return MaterialRequestResponse{
		ID:           r.ID,
		OrderID:      r.OrderID,
		Status:       string(r.Status),
		AssignedToID: r.AssignedToID,
		AssignedAt:   r.AssignedAt,
		Items:        items,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromPurchaseOrder construye la salida de una orden de compra.
func FromPurchaseOrder(p *entity.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:                    p.ID,
		MaterialRequestID:     p.MaterialRequestID,
		MaterialRequestItemID: p.MaterialRequestItemID,
		ItemName:              p.ItemName,
		Quantity:              p.Quantity,
		Rate:                  p.Rate,
		Amount:                p.Amount(),
		SupplierName:          p.SupplierName,
		ExpectedDate:          p.ExpectedDate.Format(DateLayout),
		Status:                string(p.Status),
		CreatedAt:             p.CreatedAt,
		ReceivedAt:            p.ReceivedAt,
	}
}

// FromProduction construye la salida de una corrida; order puede ser nil.
func FromProduction(p *entity.Production, order *entity.Order) ProductionResponse {
	out := ProductionResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Status:      string(p.Status),
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
	}
	if order != nil {
		out.ProductName = order.ProductName
		out.Quantity = order.Quantity
	}
	return out
}

// FromVariance construye la salida de una varianza recalculando los importes.
func FromVariance(v *entity.Variance) VarianceDTO {
	r := planning.CalculateVariance(v.PlannedQty, v.ActualQty, v.PlannedRate, v.ActualRate)
	return VarianceDTO{
		ID:            v.ID,
		OrderID:       v.OrderID,
		ItemName:      v.ItemName,
		PlannedQty:    v.PlannedQty,
		ActualQty:     v.ActualQty,
		PlannedRate:   v.PlannedRate,
		ActualRate:    v.ActualRate,
		PlannedAmount: r.PlannedAmount,
		ActualAmount:  r.ActualAmount,
		QtyVariance:   v.QtyVariance,
		PriceVariance: v.PriceVariance,
		TotalVariance: v.TotalVariance,
		IsUnfavorable: v.TotalVariance.IsPositive(),
		CreatedAt:     v.CreatedAt,
	}
}

// FromBOMEntry construye la salida de una línea de BOM.
func FromBOMEntry(b *entity.BOMEntry) BOMEntryDTO {
	return BOMEntryDTO{
		ID:              b.ID,
		ProductName:     b.ProductName,
		ItemName:        b.ItemName,
		QuantityPerUnit: b.QuantityPerUnit,
		PlannedRate:     b.PlannedRate,
		Unit:            b.Unit,
	}
}

// FromInventoryItem construye la salida de un saldo con su evaluación de reorden.
func FromInventoryItem(i *entity.InventoryItem) InventoryItemDTO {
	a := planning.EvaluateAlert(planning.AlertInput{
		CurrentStock:     i.CurrentStock,
		ReorderLevel:     i.ReorderLevel,
		DailyConsumption: i.DailyConsumption,
		LeadTime:         i.LeadTime,
		SafetyStock:      i.SafetyStock,
	})
	return InventoryItemDTO{
		ID:                    i.ID,
		ItemName:              i.ItemName,
		Unit:                  i.Unit,
		CurrentStock:          i.CurrentStock,
		OnOrderStock:          i.OnOrderStock,
		ReorderLevel:          i.ReorderLevel,
		DailyConsumption:      i.DailyConsumption,
		LeadTime:              i.LeadTime,
		SafetyStock:           i.SafetyStock,
		DaysRemaining:         a.DaysRemaining.Round(2),
		Status:                string(a.Status),
		PredictedReorderLevel: a.PredictedLevel,
		ReorderQuantity:       a.ReorderQuantity,
		IsAlert:               a.IsAlert,
		UpdatedAt:             i.UpdatedAt,
	}
}
