package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/planning"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/pkg/logger"
)

// MaterialRequestUseCase verificación física y aprobación de solicitudes de materiales.
type MaterialRequestUseCase struct {
	repos    repository.Repositories
	txRunner ports.TxRunner
	log      *logger.Logger
	rec      ports.TransitionRecorder
}

// NewMaterialRequestUseCase construye el caso de uso.
func NewMaterialRequestUseCase(
	repos repository.Repositories,
	txRunner ports.TxRunner,
	log *logger.Logger,
	rec ports.TransitionRecorder,
) *MaterialRequestUseCase {
	return &MaterialRequestUseCase{
		repos:    repos,
		txRunner: txRunner,
		log:      log.WithComponent("material_requests"),
		rec:      rec,
	}
}

// GetByID obtiene una solicitud con sus líneas.
func (uc *MaterialRequestUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapViewRequests); err != nil {
		return nil, err
	}
	req, err := uc.repos.MaterialRequests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromMaterialRequest(req)
	return &out, nil
}

// List devuelve las solicitudes con el faltante vivo de cada línea:
// requerido más la deuda de almacén (stock negativo) del material.
func (uc *MaterialRequestUseCase) List(ctx context.Context, actor entity.Actor, q dto.MaterialRequestListQuery) (*dto.MaterialRequestListResponse, error) {
	if err := actor.Require(entity.CapViewRequests); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.MaterialRequestFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		f.Statuses = []entity.RequestStatus{entity.RequestStatus(q.Status)}
	}
	list, err := uc.repos.MaterialRequests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repos.Inventory.ListByItemNames(ctx, itemNames(list))
	if err != nil {
		return nil, err
	}

	items := make([]dto.MaterialRequestResponse, 0, len(list))
	for _, req := range list {
		out := dto.FromMaterialRequest(req)
		for i := range out.Items {
			current := decimal.Zero
			if it, ok := stock[out.Items[i].ItemName]; ok {
				current = it.CurrentStock
			}
			live := out.Items[i].RequiredQty
			if current.IsNegative() {
				live = live.Add(current.Abs())
			}
			out.Items[i].CurrentStock = &current
			out.Items[i].LiveShortage = &live
		}
		items = append(items, out)
	}
	return &dto.MaterialRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// MyTasks solicitudes pendientes de conteo asignadas al empleado de materiales.
// Cada línea trae el disponible neto: stock físico menos lo requerido por todas
// las solicitudes abiertas (PENDING o VERIFIED_BY_STAFF) del mismo material.
func (uc *MaterialRequestUseCase) MyTasks(ctx context.Context, actor entity.Actor) ([]dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapViewOwnRequests); err != nil {
		return nil, err
	}
	mine, err := uc.repos.MaterialRequests.List(ctx, repository.MaterialRequestFilter{
		AssignedToID: actor.UserID,
		Statuses:     []entity.RequestStatus{entity.RequestPending},
	})
	if err != nil {
		return nil, err
	}
	open, err := uc.repos.MaterialRequests.List(ctx, repository.MaterialRequestFilter{Statuses: entity.OpenRequestStatuses})
	if err != nil {
		return nil, err
	}
	committed := map[string]decimal.Decimal{}
	for _, req := range open {
		for _, it := range req.Items {
			committed[it.ItemName] = committed[it.ItemName].Add(it.RequiredQty)
		}
	}
	stock, err := uc.repos.Inventory.ListByItemNames(ctx, itemNames(mine))
	if err != nil {
		return nil, err
	}

	out := make([]dto.MaterialRequestResponse, 0, len(mine))
	for _, req := range mine {
		r := dto.FromMaterialRequest(req)
		for i := range r.Items {
			current := decimal.Zero
			if it, ok := stock[r.Items[i].ItemName]; ok {
				current = it.CurrentStock
			}
			net := current.Sub(committed[r.Items[i].ItemName])
			r.Items[i].CurrentStock = &current
			r.Items[i].NetAvailable = &net
		}
		out = append(out, r)
	}
	return out, nil
}

// CreateReplenishment crea una solicitud sin pedido para reponer materiales en alerta.
// Sin cantidad explícita se pide el faltante contra el nivel de reorden predictivo.
func (uc *MaterialRequestUseCase) CreateReplenishment(
	ctx context.Context,
	actor entity.Actor,
	in dto.CreateReplenishmentRequest,
) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapRequestReplenish); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("la solicitud necesita al menos un material: %w", domain.ErrInvalidInput)
	}

	var created *entity.MaterialRequest
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		now := time.Now()
		mr := &entity.MaterialRequest{
			ID:        uuid.New().String(),
			Status:    entity.RequestPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		seen := map[string]struct{}{}
		for _, line := range in.Items {
			name := strings.TrimSpace(line.ItemName)
			if _, dup := seen[name]; dup || name == "" {
				return fmt.Errorf("material %q vacío o repetido: %w", name, domain.ErrInvalidInput)
			}
			seen[name] = struct{}{}

			item, err := repos.Inventory.GetByItemName(ctx, name)
			if err != nil {
				return err
			}
			level := planning.ReorderLevel(item.DailyConsumption, item.LeadTime, item.SafetyStock)
			required := level
			shortage := planning.ReorderQuantity(level, item.CurrentStock)
			if line.Quantity != nil {
				required = *line.Quantity
				shortage = *line.Quantity
			}
			if !shortage.IsPositive() {
				return fmt.Errorf("material %s no necesita reposición: %w", name, domain.ErrInvalidInput)
			}
			mr.Items = append(mr.Items, entity.MaterialRequestItem{
				ID:                uuid.New().String(),
				MaterialRequestID: mr.ID,
				ItemName:          name,
				RequiredQty:       required,
				ShortageQty:       shortage,
				Status:            entity.ItemPending,
			})
		}
		if err := repos.MaterialRequests.Create(ctx, mr); err != nil {
			return err
		}
		created = mr
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transition(created, "solicitud de reposición creada")
	out := dto.FromMaterialRequest(created)
	return &out, nil
}

// Assign asigna la verificación física a un empleado de materiales.
func (uc *MaterialRequestUseCase) Assign(ctx context.Context, actor entity.Actor, id, userID string) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapAssignRequest); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(repos repository.Repositories, req *entity.MaterialRequest, now time.Time) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Role != entity.RoleMaterialsEmployee {
			return fmt.Errorf("usuario %s tiene rol %s, se esperaba %s: %w", userID, user.Role, entity.RoleMaterialsEmployee, domain.ErrInvalidInput)
		}
		return req.Assign(userID, now)
	}, "solicitud asignada")
}

// Unassign libera la asignación.
func (uc *MaterialRequestUseCase) Unassign(ctx context.Context, actor entity.Actor, id string) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapAssignRequest); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, req *entity.MaterialRequest, now time.Time) error {
		return req.Unassign(now)
	}, "solicitud desasignada")
}

// Verify registra el conteo físico de todas las líneas (PENDING → VERIFIED_BY_STAFF).
// Solo el empleado asignado puede verificar.
func (uc *MaterialRequestUseCase) Verify(ctx context.Context, actor entity.Actor, id string, in dto.VerifyRequest) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapVerifyRequest); err != nil {
		return nil, err
	}
	counts := make(map[string]decimal.Decimal, len(in.Counts))
	for _, c := range in.Counts {
		if _, dup := counts[c.ItemID]; dup {
			return nil, fmt.Errorf("conteo repetido para ítem %s: %w", c.ItemID, domain.ErrInvalidInput)
		}
		if c.Count == nil {
			return nil, fmt.Errorf("falta el conteo del ítem %s: %w", c.ItemID, domain.ErrInvalidInput)
		}
		counts[c.ItemID] = *c.Count
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, req *entity.MaterialRequest, now time.Time) error {
		if !req.IsAssignedTo(actor.UserID) {
			return fmt.Errorf("solicitud %s no está asignada a %s: %w", req.ID, actor.UserID, domain.ErrUnauthorized)
		}
		return req.Verify(counts, now)
	}, "conteo físico registrado")
}

// Approve aprueba una solicitud verificada (VERIFIED_BY_STAFF → APPROVED).
func (uc *MaterialRequestUseCase) Approve(ctx context.Context, actor entity.Actor, id string) (*dto.MaterialRequestResponse, error) {
	if err := actor.Require(entity.CapApproveRequest); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(_ repository.Repositories, req *entity.MaterialRequest, now time.Time) error {
		return req.Approve(now)
	}, "solicitud aprobada")
}

func (uc *MaterialRequestUseCase) mutate(
	ctx context.Context,
	id string,
	fn func(repos repository.Repositories, req *entity.MaterialRequest, now time.Time) error,
	msg string,
) (*dto.MaterialRequestResponse, error) {
	var updated *entity.MaterialRequest
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		req, err := repos.MaterialRequests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(repos, req, time.Now()); err != nil {
			return err
		}
		if err := repos.MaterialRequests.Update(ctx, req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transition(updated, msg)
	out := dto.FromMaterialRequest(updated)
	return &out, nil
}

func (uc *MaterialRequestUseCase) transition(req *entity.MaterialRequest, msg string) {
	uc.rec.RecordTransition("material_request", string(req.Status))
	ev := uc.log.Info().Str("material_request_id", req.ID).Str("status", string(req.Status))
	if req.OrderID != nil {
		ev = ev.Str("order_id", *req.OrderID)
	}
	ev.Msg(msg)
}

func itemNames(list []*entity.MaterialRequest) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, req := range list {
		for _, it := range req.Items {
			if _, ok := seen[it.ItemName]; !ok {
				seen[it.ItemName] = struct{}{}
				out = append(out, it.ItemName)
			}
		}
	}
	return out
}
