package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/planning"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

// DashboardUseCase genera el tablero de gerencia.
//
// Fuente de datos: los repositorios de pedidos, solicitudes, compras, inventario y
// varianzas (solo lectura).
type DashboardUseCase struct {
	repos repository.Repositories
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repositories) *DashboardUseCase {
	return &DashboardUseCase{repos: repos}
}

// GetStats construye el ManagementStatsDTO.
//
// Tres consultas en paralelo:
//  1. pedidos por estado
//  2. solicitudes abiertas + compras pendientes
//  3. alertas de inventario + varianzas acumuladas
func (uc *DashboardUseCase) GetStats(ctx context.Context, actor entity.Actor) (*dto.ManagementStatsDTO, error) {
	if err := actor.Require(entity.CapViewStats); err != nil {
		return nil, err
	}

	type ordersResult struct {
		byStatus map[entity.OrderStatus]int
		err      error
	}
	type workflowResult struct {
		openRequests     int
		pendingPurchases int
		err              error
	}
	type costResult struct {
		alerts      int
		total       decimal.Decimal
		unfavorable int
		err         error
	}

	ordersCh := make(chan ordersResult, 1)
	workflowCh := make(chan workflowResult, 1)
	costCh := make(chan costResult, 1)

	go func() {
		byStatus, err := uc.repos.Orders.CountByStatus(ctx)
		ordersCh <- ordersResult{byStatus, err}
	}()
	go func() {
		requests, err := uc.repos.MaterialRequests.List(ctx, repository.MaterialRequestFilter{
			Statuses: []entity.RequestStatus{
				entity.RequestPending, entity.RequestVerifiedByStaff, entity.RequestApproved, entity.RequestOrdered,
			},
		})
		if err != nil {
			workflowCh <- workflowResult{err: err}
			return
		}
		purchases, err := uc.repos.PurchaseOrders.List(ctx, repository.PurchaseOrderFilter{Status: entity.PurchaseOrdered})
		workflowCh <- workflowResult{len(requests), len(purchases), err}
	}()
	go func() {
		items, err := uc.repos.Inventory.List(ctx)
		if err != nil {
			costCh <- costResult{err: err}
			return
		}
		res := costResult{total: decimal.Zero}
		for _, it := range items {
			a := planning.EvaluateAlert(planning.AlertInput{
				CurrentStock:     it.CurrentStock,
				ReorderLevel:     it.ReorderLevel,
				DailyConsumption: it.DailyConsumption,
				LeadTime:         it.LeadTime,
				SafetyStock:      it.SafetyStock,
			})
			if a.IsAlert {
				res.alerts++
			}
		}
		variances, err := uc.repos.Variances.List(ctx, 0, 0)
		if err != nil {
			costCh <- costResult{err: err}
			return
		}
		for _, v := range variances {
			res.total = res.total.Add(v.TotalVariance)
			if v.TotalVariance.IsPositive() {
				res.unfavorable++
			}
		}
		costCh <- res
	}()

	orders := <-ordersCh
	workflow := <-workflowCh
	cost := <-costCh

	if orders.err != nil {
		return nil, fmt.Errorf("tablero: pedidos por estado: %w", orders.err)
	}
	if workflow.err != nil {
		return nil, fmt.Errorf("tablero: solicitudes y compras: %w", workflow.err)
	}
	if cost.err != nil {
		return nil, fmt.Errorf("tablero: inventario y varianzas: %w", cost.err)
	}

	out := &dto.ManagementStatsDTO{
		OrdersByStatus:        make(map[string]int, len(orders.byStatus)),
		OpenMaterialRequests:  workflow.openRequests,
		PendingPurchaseOrders: workflow.pendingPurchases,
		InventoryAlerts:       cost.alerts,
		TotalVariance:         cost.total.Round(2),
		UnfavorableVariances:  cost.unfavorable,
	}
	for s, n := range orders.byStatus {
		out.OrdersByStatus[string(s)] = n
		out.TotalOrders += n
	}
	return out, nil
}
