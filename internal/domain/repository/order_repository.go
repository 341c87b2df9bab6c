package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// OrderFilter criterios de listado. Campos vacíos no filtran; Limit 0 = sin límite.
type OrderFilter struct {
	Statuses     []entity.OrderStatus
	AssignedToID string
	Limit        int
	Offset       int
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// List ordena por fecha de entrega ascendente.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	CountByStatus(ctx context.Context) (map[entity.OrderStatus]int, error)
}
