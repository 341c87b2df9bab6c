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

var (
	_ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*PurchaseOrderRepo)(nil)
)

// MaterialRequestRepo implementa repository.MaterialRequestRepository en memoria.
type MaterialRequestRepo struct{ base }

func (r *MaterialRequestRepo) Create(_ context.Context, req *entity.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.requests[req.ID]; ok {
		return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrDuplicate)
	}
	st.requests[req.ID] = copyRequest(*req)
	return nil
}

func (r *MaterialRequestRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.ref.get().requests[id]
	if !ok {
		return nil, fmt.Errorf("solicitud %s: %w", id, domain.ErrNotFound)
	}
	req = copyRequest(req)
	return &req, nil
}

func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRequestRepo) Update(_ context.Context, req *entity.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.requests[req.ID]; !ok {
		return fmt.Errorf("solicitud %s: %w", req.ID, domain.ErrNotFound)
	}
	st.requests[req.ID] = copyRequest(*req)
	return nil
}

func (r *MaterialRequestRepo) List(_ context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.MaterialRequest, 0)
	for _, req := range r.ref.get().requests {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, req.Status) {
			continue
		}
		if f.AssignedToID != "" && !req.IsAssignedTo(f.AssignedToID) {
			continue
		}
		if f.OrderID != "" && (req.OrderID == nil || *req.OrderID != f.OrderID) {
			continue
		}
		req = copyRequest(req)
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

// PurchaseOrderRepo implementa repository.PurchaseOrderRepository en memoria.
type PurchaseOrderRepo struct{ base }

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.purchases[po.ID]; ok {
		return fmt.Errorf("orden de compra %s: %w", po.ID, domain.ErrDuplicate)
	}
	st.purchases[po.ID] = *po
	return nil
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	po, ok := r.ref.get().purchases[id]
	if !ok {
		return nil, fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.purchases[po.ID]; !ok {
		return fmt.Errorf("orden de compra %s: %w", po.ID, domain.ErrNotFound)
	}
	st.purchases[po.ID] = *po
	return nil
}

func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.PurchaseOrder, 0)
	for _, po := range r.ref.get().purchases {
		if f.Status != "" && po.Status != f.Status {
			continue
		}
		if f.MaterialRequestID != "" && po.MaterialRequestID != f.MaterialRequestID {
			continue
		}
		po := po
		out = append(out, &po)
	}
	sortPurchases(out)
	return paginate(out, f.Limit, f.Offset), nil
}

func sortPurchases(out []*entity.PurchaseOrder) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
}

func (r *PurchaseOrderRepo) SuppliersByOrder(_ context.Context, orderID string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.ref.get()

	requestIDs := map[string]struct{}{}
	for _, req := range st.requests {
		if req.OrderID != nil && *req.OrderID == orderID {
			requestIDs[req.ID] = struct{}{}
		}
	}
	pos := make([]*entity.PurchaseOrder, 0)
	for _, po := range st.purchases {
		if _, ok := requestIDs[po.MaterialRequestID]; ok {
			po := po
			pos = append(pos, &po)
		}
	}
	sortPurchases(pos)

	out := map[string]string{}
	for _, po := range pos {
		if _, ok := out[po.ItemName]; !ok {
			out[po.ItemName] = po.SupplierName
		}
	}
	return out, nil
}
