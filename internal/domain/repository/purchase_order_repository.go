package repository

import (
	"context"

	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// PurchaseOrderFilter criterios de listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Status            entity.PurchaseStatus
	MaterialRequestID string
	Limit             int
	Offset            int
}

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	// SuppliersByOrder devuelve material → proveedor de la compra más reciente
	// hecha para las solicitudes del pedido.
	SuppliersByOrder(ctx context.Context, orderID string) (map[string]string, error)
}
