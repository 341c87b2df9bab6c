package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// InventoryRepository define el puerto para consultar/actualizar saldos por material.
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	Upsert(ctx context.Context, item *entity.InventoryItem) error
	GetByItemName(ctx context.Context, itemName string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemName string) (*entity.InventoryItem, error)
	// ListByItemNames devuelve solo los materiales existentes, indexados por nombre.
	ListByItemNames(ctx context.Context, names []string) (map[string]*entity.InventoryItem, error)
	List(ctx context.Context) ([]*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
}
