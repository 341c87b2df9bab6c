package repository

// Repositories agrupa los puertos que una unidad de trabajo necesita.
// Fuera de transacción se construye sobre el pool; dentro, sobre la pgx.Tx.
type Repositories struct {
	Orders           OrderRepository
	BOM              BOMRepository
	Inventory        InventoryRepository
	MaterialRequests MaterialRequestRepository
	PurchaseOrders   PurchaseOrderRepository
	Productions      ProductionRepository
	Variances        VarianceRepository
	Users            UserRepository
}
