package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var (
	_ repository.BOMRepository       = (*BOMRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

func bomKey(product, item string) string { return product + "|" + item }

// BOMRepo implementa repository.BOMRepository en memoria.
type BOMRepo struct{ base }

func (r *BOMRepo) Upsert(_ context.Context, e *entity.BOMEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if prev, ok := st.bom[bomKey(e.ProductName, e.ItemName)]; ok {
		e.ID = prev.ID
	}
	st.bom[bomKey(e.ProductName, e.ItemName)] = *e
	return nil
}

func (r *BOMRepo) ListByProduct(_ context.Context, productName string) ([]*entity.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byProduct(r.ref.get(), productName), nil
}

func (r *BOMRepo) byProduct(st *state, productName string) []*entity.BOMEntry {
	out := make([]*entity.BOMEntry, 0)
	for _, e := range st.bom {
		if e.ProductName == productName {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}

func (r *BOMRepo) Get(_ context.Context, productName, itemName string) (*entity.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ref.get().bom[bomKey(productName, itemName)]
	if !ok {
		return nil, fmt.Errorf("BOM %s / %s: %w", productName, itemName, domain.ErrNotFound)
	}
	return &e, nil
}

func (r *BOMRepo) List(_ context.Context) ([]*entity.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.BOMEntry, 0)
	for _, e := range r.ref.get().bom {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}

func (r *BOMRepo) ListProducts(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, e := range r.ref.get().bom {
		if _, ok := seen[e.ProductName]; !ok {
			seen[e.ProductName] = struct{}{}
			out = append(out, e.ProductName)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *BOMRepo) AllocatedQuantities(
	_ context.Context,
	productName, excludeOrderID string,
	statuses []entity.OrderStatus,
) (map[string]decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.ref.get()

	materials := map[string]struct{}{}
	for _, e := range r.byProduct(st, productName) {
		materials[e.ItemName] = struct{}{}
	}
	out := map[string]decimal.Decimal{}
	for _, o := range st.orders {
		if o.ID == excludeOrderID || !slices.Contains(statuses, o.Status) {
			continue
		}
		for _, e := range st.bom {
			if e.ProductName != o.ProductName {
				continue
			}
			if _, ok := materials[e.ItemName]; !ok {
				continue
			}
			out[e.ItemName] = out[e.ItemName].Add(e.QuantityPerUnit.Mul(decimal.NewFromInt(int64(o.Quantity))))
		}
	}
	return out, nil
}

// InventoryRepo implementa repository.InventoryRepository en memoria.
type InventoryRepo struct{ base }

func (r *InventoryRepo) Upsert(_ context.Context, it *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if prev, ok := st.inventory[it.ItemName]; ok {
		it.ID = prev.ID
	}
	st.inventory[it.ItemName] = *it
	return nil
}

func (r *InventoryRepo) GetByItemName(_ context.Context, itemName string) (*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.ref.get().inventory[itemName]
	if !ok {
		return nil, fmt.Errorf("material %s: %w", itemName, domain.ErrNotFound)
	}
	return &it, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, itemName string) (*entity.InventoryItem, error) {
	return r.GetByItemName(ctx, itemName)
}

func (r *InventoryRepo) ListByItemNames(_ context.Context, names []string) (map[string]*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.ref.get()
	out := make(map[string]*entity.InventoryItem, len(names))
	for _, n := range names {
		if it, ok := st.inventory[n]; ok {
			out[n] = &it
		}
	}
	return out, nil
}

func (r *InventoryRepo) List(_ context.Context) ([]*entity.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.InventoryItem, 0)
	for _, it := range r.ref.get().inventory {
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

func (r *InventoryRepo) Update(_ context.Context, it *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.ref.get()
	if _, ok := st.inventory[it.ItemName]; !ok {
		return fmt.Errorf("material %s: %w", it.ItemName, domain.ErrNotFound)
	}
	st.inventory[it.ItemName] = *it
	return nil
}
