package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var (
	_ repository.ProductionRepository = (*ProductionRepo)(nil)
	_ repository.VarianceRepository   = (*VarianceRepo)(nil)
)

// ProductionRepo implementa repository.ProductionRepository en memoria.
type ProductionRepo struct{ base }

func (r *ProductionRepo) Create(_ context.Context, p *entity.Production) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	for _, existing := range st.productions {
		if existing.OrderID == p.OrderID {
			return fmt.Errorf("producción del pedido %s: %w", p.OrderID, domain.ErrDuplicate)
		}
	}
	st.productions[p.ID] = *p
	return nil
}

func (r *ProductionRepo) GetByID(_ context.Context, id string) (*entity.Production, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ref.get().productions[id]
	if !ok {
		return nil, fmt.Errorf("producción %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Production, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductionRepo) Update(_ context.Context, p *entity.Production) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.productions[p.ID]; !ok {
		return fmt.Errorf("producción %s: %w", p.ID, domain.ErrNotFound)
	}
	st.productions[p.ID] = *p
	return nil
}

func (r *ProductionRepo) List(_ context.Context, status entity.ProductionStatus) ([]*entity.Production, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Production, 0)
	for _, p := range r.ref.get().productions {
		if status != "" && p.Status != status {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProductionRepo) AddConsumption(_ context.Context, c *entity.ActualConsumption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	st.consumption = append(st.consumption, *c)
	return nil
}

func (r *ProductionRepo) ListConsumption(_ context.Context, productionID string) ([]*entity.ActualConsumption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.ActualConsumption, 0)
	for _, c := range r.ref.get().consumption {
		if c.ProductionID == productionID {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

// VarianceRepo implementa repository.VarianceRepository en memoria.
type VarianceRepo struct{ base }

func (r *VarianceRepo) Create(_ context.Context, v *entity.Variance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	for _, existing := range st.variances {
		if existing.OrderID == v.OrderID && existing.ItemName == v.ItemName {
			return fmt.Errorf("varianza %s / %s: %w", v.OrderID, v.ItemName, domain.ErrDuplicate)
		}
	}
	st.variances = append(st.variances, *v)
	return nil
}

func (r *VarianceRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Variance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Variance, 0)
	for _, v := range r.ref.get().variances {
		if v.OrderID == orderID {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

func (r *VarianceRepo) List(_ context.Context, limit, offset int) ([]*entity.Variance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Variance, 0)
	for _, v := range r.ref.get().variances {
		v := v
		out = append(out, &v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if out[i].OrderID != out[j].OrderID {
			return out[i].OrderID < out[j].OrderID
		}
		return out[i].ItemName < out[j].ItemName
	})
	return paginate(out, limit, offset), nil
}
