package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	calc "github.com/jhoicas/procura-api/internal/domain/planning"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// RequirementsUseCase calcula requerimientos de material por pedido (solo lectura).
type RequirementsUseCase struct {
	repos repository.Repositories
}

// NewRequirementsUseCase construye el caso de uso.
func NewRequirementsUseCase(repos repository.Repositories) *RequirementsUseCase {
	return &RequirementsUseCase{repos: repos}
}

// CalculateOrderRequirements devuelve, por material del BOM del producto, lo requerido,
// el stock físico, el disponible blando (descontando otros pedidos en curso) y el faltante.
//
// Retorna domain.ErrNotFound si el pedido no existe y domain.ErrUnauthorized si el actor
// no pertenece a planeación.
func (uc *RequirementsUseCase) CalculateOrderRequirements(
	ctx context.Context,
	actor entity.Actor,
	orderID string,
) (*dto.OrderRequirementsResponse, error) {
	if err := actor.Require(entity.CapPlanOrder); err != nil {
		return nil, err
	}
	order, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	reqs, err := Calculate(ctx, uc.repos, order)
	if err != nil {
		return nil, err
	}
	return ToResponse(order, reqs), nil
}

// Calculate aplica las fórmulas de requerimientos usando los repositorios dados,
// que pueden estar atados a una transacción. El pedido evaluado se excluye de las reservas.
func Calculate(ctx context.Context, repos repository.Repositories, order *entity.Order) ([]calc.Requirement, error) {
	entries, err := repos.BOM.ListByProduct(ctx, order.ProductName)
	if err != nil {
		return nil, fmt.Errorf("requerimientos: leer BOM: %w", err)
	}
	if len(entries) == 0 {
		return []calc.Requirement{}, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.ItemName)
	}
	stock, err := repos.Inventory.ListByItemNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("requerimientos: leer inventario: %w", err)
	}
	allocated, err := repos.BOM.AllocatedQuantities(ctx, order.ProductName, order.ID, entity.AllocatingStatuses)
	if err != nil {
		return nil, fmt.Errorf("requerimientos: reservas: %w", err)
	}

	out := make([]calc.Requirement, 0, len(entries))
	for _, e := range entries {
		in := calc.RequirementInput{
			Material:          e.ItemName,
			Unit:              e.Unit,
			QuantityPerUnit:   e.QuantityPerUnit,
			OrderQuantity:     order.Quantity,
			PhysicalStock:     decimal.Zero,
			AllocatedByOthers: allocated[e.ItemName],
		}
		if it, ok := stock[e.ItemName]; ok {
			in.PhysicalStock = it.CurrentStock
			in.OnOrderStock = it.OnOrderStock
			in.DailyConsumption = it.DailyConsumption
			in.LeadTime = it.LeadTime
			in.SafetyStock = it.SafetyStock
			if in.Unit == "" {
				in.Unit = it.Unit
			}
		}
		out = append(out, calc.CalculateRequirement(in))
	}
	return out, nil
}

// ToResponse arma la salida HTTP del cálculo.
func ToResponse(order *entity.Order, reqs []calc.Requirement) *dto.OrderRequirementsResponse {
	resp := &dto.OrderRequirementsResponse{
		OrderID:     order.ID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		Status:      string(order.Status),
		Materials:   make([]dto.MaterialRequirementDTO, 0, len(reqs)),
	}
	for _, r := range reqs {
		if r.Shortage.IsPositive() {
			resp.HasShortage = true
		}
		resp.Materials = append(resp.Materials, dto.MaterialRequirementDTO{
			Material:           r.Material,
			Unit:               r.Unit,
			QuantityPerUnit:    r.QuantityPerUnit,
			Required:           r.Required,
			PhysicalStock:      r.PhysicalStock,
			SoftAvailable:      r.SoftAvailable,
			Shortage:           r.Shortage,
			ReorderShortage:    r.ReorderShortage,
			UtilizationPercent: r.UtilizationPercent.Round(2),
			OnOrderStock:       r.OnOrderStock,
			AvailableOnOrder:   r.OnOrder.Available,
			ShortageOnOrder:    r.OnOrder.Shortage,
		})
	}
	return resp
}
