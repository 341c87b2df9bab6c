package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/order"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/planning"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/pkg/logger"
)

// ProductionUseCase arranque y cierre de corridas de producción.
type ProductionUseCase struct {
	repos    repository.Repositories
	txRunner ports.TxRunner
	log      *logger.Logger
	rec      ports.TransitionRecorder
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(
	repos repository.Repositories,
	txRunner ports.TxRunner,
	log *logger.Logger,
	rec ports.TransitionRecorder,
) *ProductionUseCase {
	return &ProductionUseCase{
		repos:    repos,
		txRunner: txRunner,
		log:      log.WithComponent("production"),
		rec:      rec,
	}
}

// List corridas de producción, las más recientes primero. status vacío lista todas.
func (uc *ProductionUseCase) List(ctx context.Context, actor entity.Actor, status string) ([]dto.ProductionResponse, error) {
	if err := actor.Require(entity.CapViewOrders); err != nil {
		return nil, err
	}
	switch entity.ProductionStatus(status) {
	case "", entity.ProductionInProgress, entity.ProductionCompleted:
	default:
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}
	list, err := uc.repos.Productions.List(ctx, entity.ProductionStatus(status))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionResponse, 0, len(list))
	for _, p := range list {
		o, err := uc.repos.Orders.GetByID(ctx, p.OrderID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.FromProduction(p, o))
	}
	return out, nil
}

// Start inicia la producción del pedido (MATERIAL_REQUESTED → IN_PRODUCTION).
// Exige que todas las líneas de las solicitudes del pedido estén RECEIVED.
func (uc *ProductionUseCase) Start(ctx context.Context, actor entity.Actor, orderID string) (*dto.ProductionResponse, error) {
	if err := actor.Require(entity.CapPlanOrder); err != nil {
		return nil, err
	}
	var (
		run *entity.Production
		o   *entity.Order
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		ord, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CheckPlanner(actor, ord); err != nil {
			return err
		}
		if ord.Status != entity.OrderMaterialRequested {
			return fmt.Errorf("pedido %s en estado %s, se esperaba %s: %w", ord.ID, ord.Status, entity.OrderMaterialRequested, domain.ErrConflict)
		}
		requests, err := repos.MaterialRequests.List(ctx, repository.MaterialRequestFilter{OrderID: ord.ID})
		if err != nil {
			return err
		}
		for _, req := range requests {
			if !req.AllReceived() {
				return fmt.Errorf("solicitud %s del pedido %s tiene materiales sin recibir: %w", req.ID, ord.ID, domain.ErrConflict)
			}
		}

		now := time.Now()
		if err := ord.StartProduction(now); err != nil {
			return err
		}
		p := &entity.Production{
			ID:        uuid.New().String(),
			OrderID:   ord.ID,
			Status:    entity.ProductionInProgress,
			StartedAt: now,
		}
		if err := repos.Productions.Create(ctx, p); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, ord); err != nil {
			return err
		}
		run, o = p, ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.rec.RecordTransition("order", string(o.Status))
	uc.rec.RecordTransition("production", string(run.Status))
	uc.log.Info().Str("production_id", run.ID).Str("order_id", o.ID).Msg("producción iniciada")
	out := dto.FromProduction(run, o)
	return &out, nil
}

// Complete cierra la corrida con el consumo real por material. En una sola transacción
// guarda el consumo, escribe una varianza por material contra el BOM, descuenta el
// inventario y marca producción y pedido COMPLETED. Cualquier material sin BOM aborta todo.
func (uc *ProductionUseCase) Complete(
	ctx context.Context,
	actor entity.Actor,
	productionID string,
	in dto.CompleteProductionRequest,
) (*dto.CompleteProductionResponse, error) {
	if err := actor.Require(entity.CapPlanOrder); err != nil {
		return nil, err
	}
	if err := validateConsumption(in.Consumption); err != nil {
		return nil, err
	}

	var (
		run       *entity.Production
		o         *entity.Order
		variances []*entity.Variance
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Productions.GetForUpdate(ctx, productionID)
		if err != nil {
			return err
		}
		ord, err := repos.Orders.GetForUpdate(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if err := order.CheckPlanner(actor, ord); err != nil {
			return err
		}
		now := time.Now()
		if err := p.Complete(now); err != nil {
			return err
		}
		if err := ord.Complete(now); err != nil {
			return err
		}

		for _, line := range in.Consumption {
			name := strings.TrimSpace(line.ItemName)
			bom, err := repos.BOM.Get(ctx, ord.ProductName, name)
			if err != nil {
				return err
			}
			stock, err := repos.Inventory.GetForUpdate(ctx, name)
			if err != nil {
				return err
			}
			actualQty, actualRate := *line.ActualQty, *line.ActualRate
			if err := repos.Productions.AddConsumption(ctx, &entity.ActualConsumption{
				ID:           uuid.New().String(),
				ProductionID: p.ID,
				ItemName:     name,
				ActualQty:    actualQty,
				ActualRate:   actualRate,
			}); err != nil {
				return err
			}

			plannedQty := planning.RequiredQuantity(bom.QuantityPerUnit, ord.Quantity)
			r := planning.CalculateVariance(plannedQty, actualQty, bom.PlannedRate, actualRate)
			v := &entity.Variance{
				ID:            uuid.New().String(),
				OrderID:       ord.ID,
				ItemName:      name,
				PlannedQty:    plannedQty,
				ActualQty:     actualQty,
				PlannedRate:   bom.PlannedRate,
				ActualRate:    actualRate,
				QtyVariance:   r.QtyVariance,
				PriceVariance: r.PriceVariance,
				TotalVariance: r.TotalVariance,
				CreatedAt:     now,
			}
			if err := repos.Variances.Create(ctx, v); err != nil {
				return err
			}
			variances = append(variances, v)

			stock.Consume(actualQty, now)
			if err := repos.Inventory.Update(ctx, stock); err != nil {
				return err
			}
		}

		if err := repos.Productions.Update(ctx, p); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, ord); err != nil {
			return err
		}
		run, o = p, ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.rec.RecordTransition("order", string(o.Status))
	uc.rec.RecordTransition("production", string(run.Status))
	resp := &dto.CompleteProductionResponse{
		Production: dto.FromProduction(run, o),
		Variances:  make([]dto.VarianceDTO, 0, len(variances)),
	}
	unfavorable := 0
	for _, v := range variances {
		vd := dto.FromVariance(v)
		if vd.IsUnfavorable {
			unfavorable++
		}
		resp.Variances = append(resp.Variances, vd)
	}
	uc.log.Info().
		Str("production_id", run.ID).
		Str("order_id", o.ID).
		Int("materials", len(variances)).
		Int("unfavorable", unfavorable).
		Msg("producción completada")
	return resp, nil
}

func validateConsumption(lines []dto.ActualConsumptionDTO) error {
	if len(lines) == 0 {
		return fmt.Errorf("se requiere el consumo real de al menos un material: %w", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		name := strings.TrimSpace(l.ItemName)
		if name == "" {
			return fmt.Errorf("item_name vacío: %w", domain.ErrInvalidInput)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("material %s repetido: %w", name, domain.ErrInvalidInput)
		}
		seen[name] = struct{}{}
		if l.ActualQty == nil || l.ActualRate == nil {
			return fmt.Errorf("actual_qty y actual_rate son obligatorios para %s: %w", name, domain.ErrInvalidInput)
		}
		if l.ActualQty.IsNegative() || l.ActualRate.IsNegative() {
			return fmt.Errorf("consumo negativo para %s: %w", name, domain.ErrInvalidInput)
		}
	}
	return nil
}
