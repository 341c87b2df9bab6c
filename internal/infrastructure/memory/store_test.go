package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/internal/infrastructure/memory"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func seedBOM(t *testing.T, repos repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	entries := []entity.BOMEntry{
		{ID: "b1", ProductName: "Camisa", ItemName: "Tela", QuantityPerUnit: decimal.NewFromInt(2), PlannedRate: decimal.NewFromInt(10)},
		{ID: "b2", ProductName: "Camisa", ItemName: "Botón", QuantityPerUnit: decimal.NewFromInt(6), PlannedRate: decimal.NewFromInt(1)},
		{ID: "b3", ProductName: "Pantalón", ItemName: "Tela", QuantityPerUnit: decimal.NewFromInt(3), PlannedRate: decimal.NewFromInt(10)},
		{ID: "b4", ProductName: "Pantalón", ItemName: "Cierre", QuantityPerUnit: decimal.NewFromInt(1), PlannedRate: decimal.NewFromInt(2)},
	}
	for i := range entries {
		require.NoError(t, repos.BOM.Upsert(ctx, &entries[i]))
	}
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", Status: entity.OrderPending}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repositories().Orders.GetByID(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(repos repository.Repositories) error {
		return repos.Orders.Create(ctx, &entity.Order{ID: "o1", Status: entity.OrderPending})
	}))

	o, err := store.Repositories().Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, o.Status)
}

func TestRun_CopiaProfundaDeLineas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{
		ID: "mr1", Status: entity.RequestPending,
		Items: []entity.MaterialRequestItem{{ID: "i1", Status: entity.ItemPending}},
	}))

	_ = store.Run(ctx, func(tx repository.Repositories) error {
		req, err := tx.MaterialRequests.GetByID(ctx, "mr1")
		require.NoError(t, err)
		req.Items[0].Status = entity.ItemOrdered
		require.NoError(t, tx.MaterialRequests.Update(ctx, req))
		return errors.New("abort")
	})

	req, err := repos.MaterialRequests.GetByID(ctx, "mr1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemPending, req.Items[0].Status)
}

func TestBOM_AllocatedQuantities(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	seedBOM(t, repos)

	orders := []entity.Order{
		{ID: "eval", ProductName: "Camisa", Quantity: 10, Status: entity.OrderCalculating},
		{ID: "o2", ProductName: "Camisa", Quantity: 5, Status: entity.OrderMaterialRequested},
		{ID: "o3", ProductName: "Pantalón", Quantity: 4, Status: entity.OrderCalculating},
		{ID: "o4", ProductName: "Pantalón", Quantity: 100, Status: entity.OrderPending},
		{ID: "o5", ProductName: "Camisa", Quantity: 100, Status: entity.OrderCompleted},
	}
	for i := range orders {
		require.NoError(t, repos.Orders.Create(ctx, &orders[i]))
	}

	got, err := repos.BOM.AllocatedQuantities(ctx, "Camisa", "eval", entity.AllocatingStatuses)
	require.NoError(t, err)

	// Tela: o2 5×2 + o3 4×3 = 22; Botón: o2 5×6 = 30; Cierre no está en el BOM de Camisa.
	assert.True(t, decimal.NewFromInt(22).Equal(got["Tela"]), "tela %s", got["Tela"])
	assert.True(t, decimal.NewFromInt(30).Equal(got["Botón"]), "botón %s", got["Botón"])
	_, ok := got["Cierre"]
	assert.False(t, ok)
}

func TestBOM_ListProducts(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	seedBOM(t, repos)

	products, err := repos.BOM.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Camisa", "Pantalón"}, products)
}

func TestOrders_ListFiltraYOrdena(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	emp := "emp-1"
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "a", DeliveryDate: now.AddDate(0, 0, 5), Status: entity.OrderPending, AssignedToID: &emp}))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "b", DeliveryDate: now.AddDate(0, 0, 1), Status: entity.OrderPending, AssignedToID: &emp}))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "c", DeliveryDate: now, Status: entity.OrderCompleted}))

	list, err := repos.Orders.List(ctx, repository.OrderFilter{AssignedToID: emp})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	list, err = repos.Orders.List(ctx, repository.OrderFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	counts, err := repos.Orders.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[entity.OrderPending])
}

func TestPurchaseOrders_SuppliersByOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	orderID := "o1"
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{ID: "mr1", OrderID: &orderID, Status: entity.RequestOrdered}))
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{ID: "mr2", Status: entity.RequestOrdered}))
	require.NoError(t, repos.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{ID: "p1", MaterialRequestID: "mr1", ItemName: "Tela", SupplierName: "Textiles SA", CreatedAt: now}))
	require.NoError(t, repos.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{ID: "p2", MaterialRequestID: "mr2", ItemName: "Botón", SupplierName: "Otro", CreatedAt: now}))

	got, err := repos.PurchaseOrders.SuppliersByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Tela": "Textiles SA"}, got)
}

func TestVariances_UnicoPorPedidoYMaterial(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()

	require.NoError(t, repos.Variances.Create(ctx, &entity.Variance{ID: "v1", OrderID: "o1", ItemName: "Tela"}))
	err := repos.Variances.Create(ctx, &entity.Variance{ID: "v2", OrderID: "o1", ItemName: "Tela"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
