package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// ProductionRepository persiste corridas de producción y su consumo real.
type ProductionRepository interface {
	Create(ctx context.Context, p *entity.Production) error
	GetByID(ctx context.Context, id string) (*entity.Production, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Production, error)
	Update(ctx context.Context, p *entity.Production) error
	// List filtra por estado; status vacío lista todas.
	List(ctx context.Context, status entity.ProductionStatus) ([]*entity.Production, error)
	AddConsumption(ctx context.Context, c *entity.ActualConsumption) error
	ListConsumption(ctx context.Context, productionID string) ([]*entity.ActualConsumption, error)
}
