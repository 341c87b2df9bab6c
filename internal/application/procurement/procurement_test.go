package procurement_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/application/procurement"
	"github.com/jhoicas/procura-api/internal/application/production"
	"github.com/jhoicas/procura-api/internal/domain"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/internal/infrastructure/memory"
	"github.com/jhoicas/procura-api/pkg/logger"
)

var (
	matManager = entity.Actor{UserID: "matm-1", Role: entity.RoleMaterialsManager}
	matEmp     = entity.Actor{UserID: "mate-1", Role: entity.RoleMaterialsEmployee}
	matEmp2    = entity.Actor{UserID: "mate-2", Role: entity.RoleMaterialsEmployee}
	purchase   = entity.Actor{UserID: "pur-1", Role: entity.RolePurchase}
	ppc        = entity.Actor{UserID: "ppc-1", Role: entity.RolePPCManager}
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

type fixture struct {
	repos repository.Repositories
	tx    *memory.Store
	mr    *procurement.MaterialRequestUseCase
	po    *procurement.PurchaseOrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	for _, it := range []entity.InventoryItem{
		{ID: "inv-1", ItemName: "Tela", CurrentStock: d(-5), DailyConsumption: d(2), LeadTime: 5, SafetyStock: d(10)},
		{ID: "inv-2", ItemName: "Botón", CurrentStock: d(10), OnOrderStock: d(0)},
	} {
		it := it
		require.NoError(t, repos.Inventory.Upsert(ctx, &it))
	}
	for _, u := range []entity.User{
		{ID: matEmp.UserID, Name: "Carla", Role: entity.RoleMaterialsEmployee},
		{ID: matEmp2.UserID, Name: "Dani", Role: entity.RoleMaterialsEmployee},
		{ID: "ppce-1", Name: "Ana", Role: entity.RolePPCEmployee},
	} {
		u := u
		require.NoError(t, repos.Users.Upsert(ctx, &u))
	}
	orderID := "order-1"
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{
		ID: orderID, ProductName: "Camisa", Quantity: 10, Status: entity.OrderMaterialRequested, DeliveryDate: time.Now(),
	}))
	require.NoError(t, repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{
		ID:        "mr-1",
		OrderID:   &orderID,
		Status:    entity.RequestPending,
		CreatedAt: time.Now(),
		Items: []entity.MaterialRequestItem{
			{ID: "it-1", MaterialRequestID: "mr-1", ItemName: "Tela", RequiredQty: d(20), ShortageQty: d(25), Status: entity.ItemPending},
			{ID: "it-2", MaterialRequestID: "mr-1", ItemName: "Botón", RequiredQty: d(30), ShortageQty: d(20), Status: entity.ItemPending},
		},
	}))

	log := logger.Nop()
	return &fixture{
		repos: repos,
		tx:    store,
		mr:    procurement.NewMaterialRequestUseCase(repos, store, log, ports.NopRecorder{}),
		po:    procurement.NewPurchaseOrderUseCase(repos, store, log, ports.NopRecorder{}),
	}
}

func (f *fixture) approve(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.mr.Assign(ctx, matManager, "mr-1", matEmp.UserID)
	require.NoError(t, err)
	_, err = f.mr.Verify(ctx, matEmp, "mr-1", dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{
		{ItemID: "it-1", Count: dp(0)},
		{ItemID: "it-2", Count: dp(10)},
	}})
	require.NoError(t, err)
	_, err = f.mr.Approve(ctx, matManager, "mr-1")
	require.NoError(t, err)
}

func (f *fixture) order(t *testing.T, itemID string) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.po.Create(context.Background(), purchase, dto.CreatePurchaseOrderRequest{
		MaterialRequestID: "mr-1", MaterialRequestItemID: itemID,
		Rate: decimal.RequireFromString("2.5"), SupplierName: "Textiles SA", ExpectedDate: "2025-04-01",
	})
	require.NoError(t, err)
	return po
}

func (f *fixture) status(t *testing.T) entity.RequestStatus {
	t.Helper()
	req, err := f.repos.MaterialRequests.GetByID(context.Background(), "mr-1")
	require.NoError(t, err)
	return req.Status
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación y aprobación
// ──────────────────────────────────────────────────────────────────────────────

func TestAssign_SoloEmpleadosDeMateriales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mr.Assign(ctx, matManager, "mr-1", "ppce-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.mr.Assign(ctx, matEmp, "mr-1", matEmp.UserID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := f.mr.Assign(ctx, matManager, "mr-1", matEmp.UserID)
	require.NoError(t, err)
	assert.Equal(t, matEmp.UserID, *out.AssignedToID)

	out, err = f.mr.Unassign(ctx, matManager, "mr-1")
	require.NoError(t, err)
	assert.Nil(t, out.AssignedToID)
}

func TestVerify_SoloElAsignado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.mr.Assign(ctx, matManager, "mr-1", matEmp.UserID)
	require.NoError(t, err)
	counts := dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{{ItemID: "it-1", Count: dp(1)}, {ItemID: "it-2", Count: dp(2)}}}

	_, err = f.mr.Verify(ctx, matEmp2, "mr-1", counts)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.mr.Verify(ctx, matEmp, "mr-1", dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{{ItemID: "it-1", Count: dp(1)}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "faltan conteos")

	_, err = f.mr.Verify(ctx, matEmp, "mr-1", dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{{ItemID: "it-1", Count: dp(1)}, {ItemID: "it-1", Count: dp(2)}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "conteo repetido")

	_, err = f.mr.Verify(ctx, matEmp, "mr-1", dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{{ItemID: "it-1", Count: dp(1)}, {ItemID: "it-2"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "conteo ausente no equivale a cero")
	assert.Equal(t, entity.RequestPending, f.status(t))

	out, err := f.mr.Verify(ctx, matEmp, "mr-1", counts)
	require.NoError(t, err)
	assert.Equal(t, "VERIFIED_BY_STAFF", out.Status)
	assert.True(t, d(2).Equal(*out.Items[1].ActualPhysicalCount))
}

func TestApprove_RequiereVerificacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.mr.Approve(context.Background(), matManager, "mr-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.RequestPending, f.status(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras y recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseFlow_DosLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.po.Create(ctx, purchase, dto.CreatePurchaseOrderRequest{
		MaterialRequestID: "mr-1", MaterialRequestItemID: "it-1", Rate: d(1), SupplierName: "X", ExpectedDate: "2025-04-01",
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "sin aprobar no se compra")

	f.approve(t)

	po1 := f.order(t, "it-1")
	assert.True(t, d(25).Equal(po1.Quantity), "la cantidad es el faltante")
	assert.Equal(t, "62.5", po1.Amount.String())
	assert.Equal(t, entity.RequestApproved, f.status(t), "una línea sin compra")

	tela, err := f.repos.Inventory.GetByItemName(ctx, "Tela")
	require.NoError(t, err)
	assert.True(t, d(25).Equal(tela.OnOrderStock))

	po2 := f.order(t, "it-2")
	assert.Equal(t, entity.RequestOrdered, f.status(t))

	_, err = f.po.Receive(ctx, matManager, po1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestOrdered, f.status(t), "falta recibir una línea")

	tela, err = f.repos.Inventory.GetByItemName(ctx, "Tela")
	require.NoError(t, err)
	assert.True(t, d(20).Equal(tela.CurrentStock), "-5 + 25")
	assert.True(t, tela.OnOrderStock.IsZero())

	_, err = f.po.Receive(ctx, purchase, po1.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "no se recibe dos veces")

	out, err := f.po.Receive(ctx, purchase, po2.ID)
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", out.Status)
	assert.Equal(t, entity.RequestReceived, f.status(t))
}

func TestPurchaseFlow_MaterialFueraDelInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orderID := "order-2"
	require.NoError(t, f.repos.Orders.Create(ctx, &entity.Order{
		ID: orderID, ProductName: "Chaqueta", Quantity: 4, Status: entity.OrderMaterialRequested, DeliveryDate: time.Now(),
	}))
	require.NoError(t, f.repos.MaterialRequests.Create(ctx, &entity.MaterialRequest{
		ID:        "mr-2",
		OrderID:   &orderID,
		Status:    entity.RequestPending,
		CreatedAt: time.Now(),
		Items: []entity.MaterialRequestItem{
			{ID: "it-9", MaterialRequestID: "mr-2", ItemName: "Cierre", RequiredQty: d(4), ShortageQty: d(4), Status: entity.ItemPending},
		},
	}))
	_, err := f.repos.Inventory.GetByItemName(ctx, "Cierre")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.mr.Assign(ctx, matManager, "mr-2", matEmp.UserID)
	require.NoError(t, err)
	_, err = f.mr.Verify(ctx, matEmp, "mr-2", dto.VerifyRequest{Counts: []dto.PhysicalCountDTO{{ItemID: "it-9", Count: dp(0)}}})
	require.NoError(t, err)
	_, err = f.mr.Approve(ctx, matManager, "mr-2")
	require.NoError(t, err)

	po, err := f.po.Create(ctx, purchase, dto.CreatePurchaseOrderRequest{
		MaterialRequestID: "mr-2", MaterialRequestItemID: "it-9", Rate: d(3), SupplierName: "Metales SA", ExpectedDate: "2025-04-01",
	})
	require.NoError(t, err)

	cierre, err := f.repos.Inventory.GetByItemName(ctx, "Cierre")
	require.NoError(t, err, "la compra da de alta el material")
	assert.True(t, d(4).Equal(cierre.OnOrderStock))
	assert.True(t, cierre.CurrentStock.IsZero())

	_, err = f.po.Receive(ctx, matManager, po.ID)
	require.NoError(t, err)

	cierre, err = f.repos.Inventory.GetByItemName(ctx, "Cierre")
	require.NoError(t, err)
	assert.True(t, d(4).Equal(cierre.CurrentStock))
	assert.True(t, cierre.OnOrderStock.IsZero())

	req, err := f.repos.MaterialRequests.GetByID(ctx, "mr-2")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestReceived, req.Status)

	prod := production.NewProductionUseCase(f.repos, f.tx, logger.Nop(), ports.NopRecorder{})
	run, err := prod.Start(ctx, ppc, orderID)
	require.NoError(t, err, "el pedido puede arrancar producción")
	assert.Equal(t, orderID, run.OrderID)
}

func TestPurchaseCreate_PedidoCancelado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t)

	o, err := f.repos.Orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	require.NoError(t, o.Cancel(time.Now()))
	require.NoError(t, f.repos.Orders.Update(ctx, o))

	_, err = f.po.Create(ctx, purchase, dto.CreatePurchaseOrderRequest{
		MaterialRequestID: "mr-1", MaterialRequestItemID: "it-1", Rate: d(1), SupplierName: "X", ExpectedDate: "2025-04-01",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, entity.RequestApproved, f.status(t))
	tela, err := f.repos.Inventory.GetByItemName(ctx, "Tela")
	require.NoError(t, err)
	assert.True(t, tela.OnOrderStock.IsZero(), "nada queda en camino")
	list, err := f.po.List(ctx, ppc, dto.PurchaseOrderListQuery{MaterialRequestID: "mr-1"})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestPurchaseCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approve(t)
	base := dto.CreatePurchaseOrderRequest{
		MaterialRequestID: "mr-1", MaterialRequestItemID: "it-1", Rate: d(1), SupplierName: "X", ExpectedDate: "2025-04-01",
	}

	in := base
	in.Quantity = dp(10)
	_, err := f.po.Create(ctx, purchase, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad distinta del faltante")

	in = base
	in.Rate = decimal.Zero
	_, err = f.po.Create(ctx, purchase, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base
	in.MaterialRequestItemID = "nope"
	_, err = f.po.Create(ctx, purchase, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.po.Create(ctx, matManager, base)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	in = base
	in.Quantity = dp(25)
	_, err = f.po.Create(ctx, purchase, in)
	require.NoError(t, err)

	_, err = f.po.Create(ctx, purchase, base)
	assert.ErrorIs(t, err, domain.ErrConflict, "una compra por línea")

	list, err := f.po.List(ctx, ppc, dto.PurchaseOrderListQuery{MaterialRequestID: "mr-1"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados enriquecidos y reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FaltanteVivo(t *testing.T) {
	f := newFixture(t)
	out, err := f.mr.List(context.Background(), ppc, dto.MaterialRequestListQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	items := out.Items[0].Items
	// Tela: requerido 20 + deuda 5.
	assert.True(t, d(25).Equal(*items[0].LiveShortage))
	assert.True(t, d(30).Equal(*items[1].LiveShortage))
}

func TestMyTasks_DisponibleNeto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.mr.Assign(ctx, matManager, "mr-1", matEmp.UserID)
	require.NoError(t, err)

	_, err = f.mr.CreateReplenishment(ctx, matManager, dto.CreateReplenishmentRequest{
		Items: []dto.ReplenishmentItemRequest{{ItemName: "Botón", Quantity: dp(5)}},
	})
	require.NoError(t, err)

	tasks, err := f.mr.MyTasks(ctx, matEmp)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Botón: 10 − (30 + 5) = −25, sin piso.
	boton := tasks[0].Items[1]
	assert.Equal(t, "Botón", boton.ItemName)
	assert.True(t, d(-25).Equal(*boton.NetAvailable), "net %s", boton.NetAvailable)

	none, err := f.mr.MyTasks(ctx, matEmp2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateReplenishment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.mr.CreateReplenishment(ctx, matManager, dto.CreateReplenishmentRequest{
		Items: []dto.ReplenishmentItemRequest{{ItemName: "Tela"}},
	})
	require.NoError(t, err)
	assert.Nil(t, out.OrderID)
	require.Len(t, out.Items, 1)
	// Nivel predictivo 2×5+10 = 20; stock −5 → faltante 25.
	assert.True(t, d(20).Equal(out.Items[0].RequiredQty))
	assert.True(t, d(25).Equal(out.Items[0].ShortageQty))

	_, err = f.mr.CreateReplenishment(ctx, matManager, dto.CreateReplenishmentRequest{
		Items: []dto.ReplenishmentItemRequest{{ItemName: "Botón"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sobre el nivel de reorden")

	_, err = f.mr.CreateReplenishment(ctx, matManager, dto.CreateReplenishmentRequest{
		Items: []dto.ReplenishmentItemRequest{{ItemName: "Seda"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.mr.CreateReplenishment(ctx, purchase, dto.CreateReplenishmentRequest{
		Items: []dto.ReplenishmentItemRequest{{ItemName: "Tela"}},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
