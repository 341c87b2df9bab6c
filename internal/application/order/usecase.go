package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/planning"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/pkg/logger"
)

// OrderUseCase registro de pedidos y su paso por planeación hasta la solicitud de materiales.
type OrderUseCase struct {
	repos    repository.Repositories
	txRunner ports.TxRunner
	log      *logger.Logger
	rec      ports.TransitionRecorder
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	repos repository.Repositories,
	txRunner ports.TxRunner,
	log *logger.Logger,
	rec ports.TransitionRecorder,
) *OrderUseCase {
	return &OrderUseCase{
		repos:    repos,
		txRunner: txRunner,
		log:      log.WithComponent("orders"),
		rec:      rec,
	}
}

// Create registra un pedido PENDING. El producto debe tener BOM.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapCreateOrder); err != nil {
		return nil, err
	}
	customer := strings.TrimSpace(in.CustomerName)
	product := strings.TrimSpace(in.ProductName)
	if customer == "" || product == "" || in.Quantity <= 0 {
		return nil, fmt.Errorf("cliente, producto y cantidad > 0 son obligatorios: %w", domain.ErrInvalidInput)
	}
	delivery, err := time.Parse(dto.DateLayout, in.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("delivery_date %q: %w", in.DeliveryDate, domain.ErrInvalidInput)
	}
	bom, err := uc.repos.BOM.ListByProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	if len(bom) == 0 {
		return nil, fmt.Errorf("producto %s sin BOM: %w", product, domain.ErrNotFound)
	}

	now := time.Now()
	o := &entity.Order{
		ID:           uuid.New().String(),
		CustomerName: customer,
		ProductName:  product,
		Quantity:     in.Quantity,
		DeliveryDate: delivery,
		Status:       entity.OrderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.transition(o, "pedido registrado")
	out := dto.FromOrder(o)
	return &out, nil
}

// GetByID obtiene un pedido.
func (uc *OrderUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapViewOrders); err != nil {
		return nil, err
	}
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromOrder(o)
	return &out, nil
}

// List lista pedidos por fecha de entrega, opcionalmente filtrados por estado.
func (uc *OrderUseCase) List(ctx context.Context, actor entity.Actor, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	if err := actor.Require(entity.CapViewOrders); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.OrderFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		f.Statuses = []entity.OrderStatus{entity.OrderStatus(q.Status)}
	}
	list, err := uc.repos.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.OrderListResponse{
		Items: dto.FromOrders(list),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// MyTasks pedidos abiertos asignados al empleado de planeación.
func (uc *OrderUseCase) MyTasks(ctx context.Context, actor entity.Actor) ([]dto.OrderResponse, error) {
	if err := actor.Require(entity.CapViewOwnOrders); err != nil {
		return nil, err
	}
	list, err := uc.repos.Orders.List(ctx, repository.OrderFilter{
		AssignedToID: actor.UserID,
		Statuses:     entity.OpenOrderStatuses,
	})
	if err != nil {
		return nil, err
	}
	return dto.FromOrders(list), nil
}

// Assign asigna el pedido a un empleado de planeación.
func (uc *OrderUseCase) Assign(ctx context.Context, actor entity.Actor, id, userID string) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapAssignOrder); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(repos repository.Repositories, o *entity.Order, now time.Time) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Role != entity.RolePPCEmployee {
			return fmt.Errorf("usuario %s tiene rol %s, se esperaba %s: %w", userID, user.Role, entity.RolePPCEmployee, domain.ErrInvalidInput)
		}
		return o.Assign(userID, now)
	}, "pedido asignado")
}

// Unassign libera la asignación del pedido.
func (uc *OrderUseCase) Unassign(ctx context.Context, actor entity.Actor, id string) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapAssignOrder); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, o *entity.Order, now time.Time) error {
		return o.Unassign(now)
	}, "pedido desasignado")
}

// Lock bloquea el pedido para cálculo (PENDING → CALCULATING); desde aquí reserva material.
func (uc *OrderUseCase) Lock(ctx context.Context, actor entity.Actor, id string) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapPlanOrder); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, o *entity.Order, now time.Time) error {
		if err := CheckPlanner(actor, o); err != nil {
			return err
		}
		return o.Lock(now)
	}, "pedido bloqueado para cálculo")
}

// Cancel cancela un pedido que aún no entra a producción.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.OrderResponse, error) {
	if err := actor.Require(entity.CapCancelOrder); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, o *entity.Order, now time.Time) error {
		return o.Cancel(now)
	}, "pedido cancelado")
}

// RequestMaterials recalcula los requerimientos del pedido dentro de la transacción,
// crea una solicitud con las líneas en faltante y pasa el pedido a MATERIAL_REQUESTED.
// Sin faltantes no se crea solicitud, pero el pedido avanza igual.
func (uc *OrderUseCase) RequestMaterials(ctx context.Context, actor entity.Actor, id string) (*dto.RequestMaterialsResponse, error) {
	if err := actor.Require(entity.CapPlanOrder); err != nil {
		return nil, err
	}
	var (
		order *entity.Order
		req   *entity.MaterialRequest
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := CheckPlanner(actor, o); err != nil {
			return err
		}
		if o.Status != entity.OrderCalculating {
			return fmt.Errorf("pedido %s en estado %s, se esperaba %s: %w", o.ID, o.Status, entity.OrderCalculating, domain.ErrConflict)
		}
		reqs, err := planning.Calculate(ctx, repos, o)
		if err != nil {
			return err
		}

		now := time.Now()
		mr := &entity.MaterialRequest{
			ID:        uuid.New().String(),
			OrderID:   &o.ID,
			Status:    entity.RequestPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, r := range reqs {
			if !r.Shortage.IsPositive() {
				continue
			}
			mr.Items = append(mr.Items, entity.MaterialRequestItem{
				ID:                uuid.New().String(),
				MaterialRequestID: mr.ID,
				ItemName:          r.Material,
				RequiredQty:       r.Required,
				ShortageQty:       r.Shortage,
				Status:            entity.ItemPending,
			})
		}
		if len(mr.Items) > 0 {
			if err := repos.MaterialRequests.Create(ctx, mr); err != nil {
				return err
			}
			req = mr
		}
		if err := o.MarkMaterialRequested(now); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.transition(order, "materiales solicitados")
	out := &dto.RequestMaterialsResponse{Order: dto.FromOrder(order)}
	if req != nil {
		uc.rec.RecordTransition("material_request", string(req.Status))
		uc.log.Info().
			Str("material_request_id", req.ID).
			Str("order_id", order.ID).
			Int("items", len(req.Items)).
			Msg("solicitud de materiales creada")
		mr := dto.FromMaterialRequest(req)
		out.MaterialRequest = &mr
	}
	return out, nil
}

// CheckPlanner exige que un empleado de planeación sea el asignado cuando el pedido
// tiene asignación. El jefe de planeación puede operar cualquier pedido.
func CheckPlanner(actor entity.Actor, o *entity.Order) error {
	if actor.Role != entity.RolePPCEmployee || o.AssignedToID == nil {
		return nil
	}
	if !o.IsAssignedTo(actor.UserID) {
		return fmt.Errorf("pedido %s asignado a otro empleado: %w", o.ID, domain.ErrUnauthorized)
	}
	return nil
}

func (uc *OrderUseCase) mutate(
	ctx context.Context,
	id string,
	fn func(repos repository.Repositories, o *entity.Order, now time.Time) error,
	msg string,
) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(repos, o, time.Now()); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transition(order, msg)
	out := dto.FromOrder(order)
	return &out, nil
}

func (uc *OrderUseCase) transition(o *entity.Order, msg string) {
	uc.rec.RecordTransition("order", string(o.Status))
	ev := uc.log.Info().Str("order_id", o.ID).Str("status", string(o.Status))
	if o.AssignedToID != nil {
		ev = ev.Str("assigned_to", *o.AssignedToID)
	}
	ev.Msg(msg)
}
