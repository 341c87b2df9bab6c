package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// VarianceRepository registros de varianza; se escriben una vez al cerrar producción.
type VarianceRepository interface {
	Create(ctx context.Context, v *entity.Variance) error
	// ListByOrder orden por material.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Variance, error)
	// List orden por fecha de creación descendente.
	List(ctx context.Context, limit, offset int) ([]*entity.Variance, error)
}
