package procurement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/pkg/logger"
)

// PurchaseOrderUseCase compras por línea de solicitud aprobada y su recepción en almacén.
type PurchaseOrderUseCase struct {
	repos    repository.Repositories
	txRunner ports.TxRunner
	log      *logger.Logger
	rec      ports.TransitionRecorder
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	repos repository.Repositories,
	txRunner ports.TxRunner,
	log *logger.Logger,
	rec ports.TransitionRecorder,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		repos:    repos,
		txRunner: txRunner,
		log:      log.WithComponent("purchase_orders"),
		rec:      rec,
	}
}

// List lista órdenes de compra, las más recientes primero.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, actor entity.Actor, q dto.PurchaseOrderListQuery) (*dto.PurchaseOrderListResponse, error) {
	if err := actor.Require(entity.CapViewPurchaseOrders); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repos.PurchaseOrders.List(ctx, repository.PurchaseOrderFilter{
		Status:            entity.PurchaseStatus(q.Status),
		MaterialRequestID: q.MaterialRequestID,
		Limit:             q.Limit,
		Offset:            q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, dto.FromPurchaseOrder(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Create emite la orden de compra de una línea de una solicitud APPROVED.
// La cantidad es exactamente el faltante de la línea; el material queda "en camino".
// La solicitud pasa a ORDERED cuando todas sus líneas tienen compra.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := actor.Require(entity.CapCreatePurchase); err != nil {
		return nil, err
	}
	if !in.Rate.IsPositive() {
		return nil, fmt.Errorf("rate debe ser > 0: %w", domain.ErrInvalidInput)
	}
	supplier := strings.TrimSpace(in.SupplierName)
	if supplier == "" {
		return nil, fmt.Errorf("supplier_name es obligatorio: %w", domain.ErrInvalidInput)
	}
	expected, err := time.Parse(dto.DateLayout, in.ExpectedDate)
	if err != nil {
		return nil, fmt.Errorf("expected_date %q: %w", in.ExpectedDate, domain.ErrInvalidInput)
	}

	var (
		po  *entity.PurchaseOrder
		req *entity.MaterialRequest
	)
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		r, err := repos.MaterialRequests.GetForUpdate(ctx, in.MaterialRequestID)
		if err != nil {
			return err
		}
		line, ok := r.Item(in.MaterialRequestItemID)
		if !ok {
			return fmt.Errorf("ítem %s de la solicitud %s: %w", in.MaterialRequestItemID, r.ID, domain.ErrNotFound)
		}
		qty := line.ShortageQty
		if in.Quantity != nil && !in.Quantity.Equal(qty) {
			return fmt.Errorf("la cantidad %s debe ser igual al faltante %s: %w", in.Quantity, qty, domain.ErrInvalidInput)
		}
		now := time.Now()
		item, err := r.MarkItemOrdered(line.ID, now)
		if err != nil {
			return err
		}
		if err := checkOrderAlive(ctx, repos, r); err != nil {
			return err
		}
		stock, isNew, err := stockForUpdate(ctx, repos, item.ItemName)
		if err != nil {
			return err
		}
		p := &entity.PurchaseOrder{
			ID:                    uuid.New().String(),
			MaterialRequestID:     r.ID,
			MaterialRequestItemID: item.ID,
			ItemName:              item.ItemName,
			Quantity:              qty,
			Rate:                  in.Rate,
			SupplierName:          supplier,
			ExpectedDate:          expected,
			Status:                entity.PurchaseOrdered,
			CreatedAt:             now,
		}
		if err := repos.PurchaseOrders.Create(ctx, p); err != nil {
			return err
		}
		stock.PlaceOnOrder(qty, now)
		if err := saveStock(ctx, repos, stock, isNew); err != nil {
			return err
		}
		if err := repos.MaterialRequests.Update(ctx, r); err != nil {
			return err
		}
		po, req = p, r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.rec.RecordTransition("purchase_order", string(po.Status))
	uc.rec.RecordTransition("material_request", string(req.Status))
	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("material_request_id", req.ID).
		Str("item", po.ItemName).
		Str("quantity", po.Quantity.String()).
		Str("request_status", string(req.Status)).
		Msg("orden de compra emitida")
	out := dto.FromPurchaseOrder(po)
	return &out, nil
}

// Receive registra la llegada de la compra: suma al stock físico, descuenta del stock
// en camino y marca la línea como recibida. La solicitud pasa a RECEIVED cuando
// todas sus líneas llegaron.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, actor entity.Actor, id string) (*dto.PurchaseOrderResponse, error) {
	if err := actor.Require(entity.CapReceivePurchase); err != nil {
		return nil, err
	}
	var (
		po  *entity.PurchaseOrder
		req *entity.MaterialRequest
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := p.Receive(now); err != nil {
			return err
		}
		r, err := repos.MaterialRequests.GetForUpdate(ctx, p.MaterialRequestID)
		if err != nil {
			return err
		}
		if _, err := r.MarkItemReceived(p.MaterialRequestItemID, now); err != nil {
			return err
		}
		stock, isNew, err := stockForUpdate(ctx, repos, p.ItemName)
		if err != nil {
			return err
		}
		stock.Receive(p.Quantity, now)

		if err := saveStock(ctx, repos, stock, isNew); err != nil {
			return err
		}
		if err := repos.PurchaseOrders.Update(ctx, p); err != nil {
			return err
		}
		if err := repos.MaterialRequests.Update(ctx, r); err != nil {
			return err
		}
		po, req = p, r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.rec.RecordTransition("purchase_order", string(po.Status))
	uc.rec.RecordTransition("material_request", string(req.Status))
	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("material_request_id", req.ID).
		Str("item", po.ItemName).
		Str("request_status", string(req.Status)).
		Msg("orden de compra recibida")
	out := dto.FromPurchaseOrder(po)
	return &out, nil
}

// checkOrderAlive impide comprar para un pedido cancelado. Las solicitudes de
// reposición no tienen pedido y siempre pasan.
func checkOrderAlive(ctx context.Context, repos repository.Repositories, r *entity.MaterialRequest) error {
	if r.OrderID == nil {
		return nil
	}
	order, err := repos.Orders.GetByID(ctx, *r.OrderID)
	if err != nil {
		return err
	}
	if order.Status == entity.OrderCancelled {
		return fmt.Errorf("el pedido %s de la solicitud %s está cancelado: %w", order.ID, r.ID, domain.ErrConflict)
	}
	return nil
}

// stockForUpdate bloquea la fila de inventario del material. Un material que aún
// no figura en el inventario tiene stock cero: se devuelve una fila nueva
// (isNew) que saveStock da de alta.
func stockForUpdate(ctx context.Context, repos repository.Repositories, itemName string) (*entity.InventoryItem, bool, error) {
	stock, err := repos.Inventory.GetForUpdate(ctx, itemName)
	if errors.Is(err, domain.ErrNotFound) {
		return &entity.InventoryItem{ID: uuid.New().String(), ItemName: itemName}, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return stock, false, nil
}

func saveStock(ctx context.Context, repos repository.Repositories, stock *entity.InventoryItem, isNew bool) error {
	if isNew {
		return repos.Inventory.Upsert(ctx, stock)
	}
	return repos.Inventory.Update(ctx, stock)
}
