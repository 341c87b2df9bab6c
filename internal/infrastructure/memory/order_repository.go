package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementa repository.OrderRepository en memoria.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.orders[o.ID]; ok {
		return fmt.Errorf("pedido %s: %w", o.ID, domain.ErrDuplicate)
	}
	st.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.ref.get().orders[id]
	if !ok {
		return nil, fmt.Errorf("pedido %s: %w", id, domain.ErrNotFound)
	}
	return &o, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.orders[o.ID]; !ok {
		return fmt.Errorf("pedido %s: %w", o.ID, domain.ErrNotFound)
	}
	st.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.ref.get().orders {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		if f.AssignedToID != "" && !o.IsAssignedTo(f.AssignedToID) {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeliveryDate.Equal(out[j].DeliveryDate) {
			return out[i].DeliveryDate.Before(out[j].DeliveryDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *OrderRepo) CountByStatus(_ context.Context) (map[entity.OrderStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[entity.OrderStatus]int{}
	for _, o := range r.ref.get().orders {
		out[o.Status]++
	}
	return out, nil
}
