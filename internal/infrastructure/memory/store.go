// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa en tests de casos de uso y HTTP, y para levantar la API sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	orders      map[string]entity.Order
	bom         map[string]entity.BOMEntry // clave producto|material
	inventory   map[string]entity.InventoryItem
	requests    map[string]entity.MaterialRequest
	purchases   map[string]entity.PurchaseOrder
	productions map[string]entity.Production
	consumption []entity.ActualConsumption
	variances   []entity.Variance
	users       map[string]entity.User
}

func newState() *state {
	return &state{
		orders:      map[string]entity.Order{},
		bom:         map[string]entity.BOMEntry{},
		inventory:   map[string]entity.InventoryItem{},
		requests:    map[string]entity.MaterialRequest{},
		purchases:   map[string]entity.PurchaseOrder{},
		productions: map[string]entity.Production{},
		users:       map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.bom {
		c.bom[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = copyRequest(v)
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.productions {
		c.productions[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.consumption = append(c.consumption, s.consumption...)
	c.variances = append(c.variances, s.variances...)
	return c
}

func copyRequest(r entity.MaterialRequest) entity.MaterialRequest {
	r.Items = append([]entity.MaterialRequestItem(nil), r.Items...)
	return r
}

// locker abstrae el RWMutex del store; dentro de una tx no se bloquea por operación.
type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type noLock struct{}

func (noLock) Lock()    {}
func (noLock) Unlock()  {}
func (noLock) RLock()   {}
func (noLock) RUnlock() {}

// Store agrupa el estado y actúa como TxRunner: cada Run trabaja sobre una copia
// que solo reemplaza al estado vigente si fn termina sin error.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios fuera de transacción sobre el estado vigente.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(&storeRef{store: s}, &s.mu)
}

// Run ejecuta fn de forma serializada sobre una copia del estado (todo o nada).
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(newRepositories(&fixedRef{st: work}, noLock{})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// stateRef resuelve el estado en cada operación; fuera de tx el store puede haber
// reemplazado su estado por el resultado de un commit.
type stateRef interface {
	get() *state
}

type storeRef struct{ store *Store }

func (r *storeRef) get() *state { return r.store.st }

type fixedRef struct{ st *state }

func (r *fixedRef) get() *state { return r.st }

type base struct {
	ref stateRef
	mu  locker
}

func newRepositories(ref stateRef, mu locker) repository.Repositories {
	b := base{ref: ref, mu: mu}
	return repository.Repositories{
		Orders:           &OrderRepo{b},
		BOM:              &BOMRepo{b},
		Inventory:        &InventoryRepo{b},
		MaterialRequests: &MaterialRequestRepo{b},
		PurchaseOrders:   &PurchaseOrderRepo{b},
		Productions:      &ProductionRepo{b},
		Variances:        &VarianceRepo{b},
		Users:            &UserRepo{b},
	}
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
