package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/internal/infrastructure/memory"
)

var (
	manager    = entity.Actor{UserID: "m-1", Role: entity.RoleManagement}
	ppcManager = entity.Actor{UserID: "p-1", Role: entity.RolePPCManager}
	sales      = entity.Actor{UserID: "s-1", Role: entity.RoleSales}
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fakeReport struct {
	got *dto.OrderVarianceReport
}

func (f *fakeReport) GenerateVarianceReport(r *dto.OrderVarianceReport, _ time.Time) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.4"), nil
}

func seed(t *testing.T) repository.Repositories {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	now := time.Now()

	for _, o := range []entity.Order{
		{ID: "o1", CustomerName: "ACME", ProductName: "Camisa", Quantity: 10, Status: entity.OrderCompleted, DeliveryDate: now},
		{ID: "o2", CustomerName: "ACME", ProductName: "Camisa", Quantity: 5, Status: entity.OrderPending, DeliveryDate: now},
		{ID: "o3", CustomerName: "Beta", ProductName: "Camisa", Quantity: 5, Status: entity.OrderPending, DeliveryDate: now},
	} {
		o := o
		require.NoError(t, repos.Orders.Create(ctx, &o))
	}
	orderID := "o1"
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{
		ID: "mr1", OrderID: &orderID, Status: entity.RequestReceived, CreatedAt: now,
		Items: []entity.MaterialRequestItem{{ID: "it1", ItemName: "Tela", RequiredQty: d(100), ShortageQty: d(20), Status: entity.ItemReceived}},
	}))
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{
		ID: "mr2", Status: entity.RequestPending, CreatedAt: now,
		Items: []entity.MaterialRequestItem{{ID: "it2", ItemName: "Hilo", RequiredQty: d(10), ShortageQty: d(10), Status: entity.ItemPending}},
	}))
	require.NoError(t, repos.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{
		ID: "po1", MaterialRequestID: "mr1", MaterialRequestItemID: "it1", ItemName: "Tela",
		Quantity: d(20), Rate: d(10), SupplierName: "Textiles SA", Status: entity.PurchaseReceived, CreatedAt: now,
	}))
	require.NoError(t, repos.Inventory.Upsert(ctx, &entity.InventoryItem{
		ID: "i1", ItemName: "Hilo", CurrentStock: d(1), ReorderLevel: d(50), DailyConsumption: d(5), LeadTime: 3,
	}))
	require.NoError(t, repos.Inventory.Upsert(ctx, &entity.InventoryItem{
		ID: "i2", ItemName: "Tela", CurrentStock: d(1000), ReorderLevel: d(50), DailyConsumption: d(5), LeadTime: 3,
	}))

	for _, v := range []entity.Variance{
		{ID: "v1", OrderID: "o1", ItemName: "Tela", PlannedQty: d(100), ActualQty: d(120), PlannedRate: d(10), ActualRate: d(10),
			QtyVariance: d(200), PriceVariance: d(0), TotalVariance: d(200), CreatedAt: now},
		{ID: "v2", OrderID: "o1", ItemName: "Botón", PlannedQty: d(100), ActualQty: d(100), PlannedRate: d(10), ActualRate: d(9),
			QtyVariance: d(0), PriceVariance: d(-100), TotalVariance: d(-100), CreatedAt: now},
	} {
		v := v
		require.NoError(t, repos.Variances.Create(ctx, &v))
	}
	return repos
}

// ──────────────────────────────────────────────────────────────────────────────
// Varianzas
// ──────────────────────────────────────────────────────────────────────────────

func TestVarianceList_Proveedor(t *testing.T) {
	uc := analytics.NewVarianceUseCase(seed(t), nil)

	out, err := uc.List(context.Background(), ppcManager, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Page.Limit)

	suppliers := map[string]string{}
	for _, v := range out.Items {
		suppliers[v.ItemName] = v.SupplierName
	}
	assert.Equal(t, "Textiles SA", suppliers["Tela"])
	assert.Equal(t, dto.InternalSupplier, suppliers["Botón"])

	_, err = uc.List(context.Background(), sales, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVarianceByOrder_Totales(t *testing.T) {
	uc := analytics.NewVarianceUseCase(seed(t), nil)

	r, err := uc.ByOrder(context.Background(), manager, "o1")
	require.NoError(t, err)
	assert.Equal(t, "ACME", r.CustomerName)
	require.Len(t, r.Lines, 2)
	assert.True(t, d(100).Equal(r.TotalVariance))
	assert.True(t, d(200).Equal(r.QtyVariance))
	assert.True(t, d(-100).Equal(r.PriceVariance))
	assert.True(t, d(2000).Equal(r.PlannedAmount))
	assert.True(t, d(2100).Equal(r.ActualAmount))
	assert.True(t, r.IsUnfavorable)

	_, err = uc.ByOrder(context.Background(), manager, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVarianceReportPDF(t *testing.T) {
	gen := &fakeReport{}
	uc := analytics.NewVarianceUseCase(seed(t), gen)

	pdf, name, err := uc.ReportPDF(context.Background(), manager, "o1")
	require.NoError(t, err)
	assert.Equal(t, "variance-o1.pdf", name)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Lines, 2)

	_, _, err = uc.ReportPDF(context.Background(), manager, "o2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tablero de gerencia
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardStats(t *testing.T) {
	uc := analytics.NewDashboardUseCase(seed(t))

	s, err := uc.GetStats(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 2, s.OrdersByStatus["PENDING"])
	assert.Equal(t, 1, s.OrdersByStatus["COMPLETED"])
	assert.Equal(t, 1, s.OpenMaterialRequests)
	assert.Equal(t, 0, s.PendingPurchaseOrders)
	assert.Equal(t, 1, s.InventoryAlerts)
	assert.True(t, d(100).Equal(s.TotalVariance))
	assert.Equal(t, 1, s.UnfavorableVariances)

	_, err = uc.GetStats(context.Background(), ppcManager)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
