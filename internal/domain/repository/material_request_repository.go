package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// MaterialRequestFilter criterios de listado de solicitudes.
type MaterialRequestFilter struct {
	Statuses     []entity.RequestStatus
	AssignedToID string
	OrderID      string
	Limit        int
	Offset       int
}

// MaterialRequestRepository persiste la solicitud junto con sus líneas.
type MaterialRequestRepository interface {
	Create(ctx context.Context, req *entity.MaterialRequest) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error)
	// Update guarda la cabecera y el estado/conteo de cada línea.
	Update(ctx context.Context, req *entity.MaterialRequest) error
	// List ordena por fecha de creación descendente.
	List(ctx context.Context, filter MaterialRequestFilter) ([]*entity.MaterialRequest, error)
}
