package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// BOMRepository define el puerto de lectura de la lista de materiales.
type BOMRepository interface {
	Upsert(ctx context.Context, entry *entity.BOMEntry) error
	// ListByProduct devuelve las líneas del producto ordenadas por material; vacío si no tiene BOM.
	ListByProduct(ctx context.Context, productName string) ([]*entity.BOMEntry, error)
	Get(ctx context.Context, productName, itemName string) (*entity.BOMEntry, error)
	List(ctx context.Context) ([]*entity.BOMEntry, error)
	ListProducts(ctx context.Context) ([]string, error)

	// AllocatedQuantities suma, por cada material del BOM de productName, lo que reservan
	// los pedidos en los estados dados (qpu del producto de cada pedido × su cantidad),
	// excluyendo excludeOrderID. Los materiales sin reservas no aparecen en el mapa.
	AllocatedQuantities(
		ctx context.Context,
		productName, excludeOrderID string,
		statuses []entity.OrderStatus,
	) (map[string]decimal.Decimal, error)
}
