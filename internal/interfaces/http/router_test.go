package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/auth"
	"github.com/jhoicas/procura-api/internal/application/order"
	"github.com/jhoicas/procura-api/internal/application/planning"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/application/procurement"
	"github.com/jhoicas/procura-api/internal/application/production"
	"github.com/jhoicas/procura-api/internal/application/usecase"
	"github.com/jhoicas/procura-api/internal/domain/entity"
	"github.com/jhoicas/procura-api/internal/infrastructure/memory"
	"github.com/jhoicas/procura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procura-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/procura-api/internal/interfaces/http"
	"github.com/jhoicas/procura-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	salesID   = "u-sales"
	managerID = "u-ppc-manager"
	plannerID = "u-ppc-1"
)

type fakeObserver struct {
	mu     sync.Mutex
	routes []string
}

func (o *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, method+" "+route)
}

func newAPI(t *testing.T, logOut io.Writer, obs apphttp.RequestObserver) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	for _, u := range []entity.User{
		{ID: salesID, Name: "Ventas", Role: entity.RoleSales},
		{ID: managerID, Name: "Jefe PPC", Role: entity.RolePPCManager},
		{ID: plannerID, Name: "Planificador", Role: entity.RolePPCEmployee},
	} {
		u := u
		require.NoError(t, repos.Users.Upsert(ctx, &u))
	}
	require.NoError(t, repos.BOM.Upsert(ctx, &entity.BOMEntry{
		ID: "b1", ProductName: "Camisa", ItemName: "Tela", QuantityPerUnit: decimal.NewFromInt(10), PlannedRate: decimal.NewFromInt(10), Unit: "m",
	}))
	require.NoError(t, repos.Inventory.Upsert(ctx, &entity.InventoryItem{
		ID: "i1", ItemName: "Tela", CurrentStock: decimal.NewFromInt(50), DailyConsumption: decimal.NewFromInt(5),
		LeadTime: 7, SafetyStock: decimal.NewFromInt(10), Unit: "m",
	}))

	log := logger.Nop()
	if logOut != nil {
		log = logger.NewWithWriter(logger.Config{Level: "info"}, logOut)
	}
	rec := ports.NopRecorder{}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log, obs))
	apphttp.Router(app, apphttp.RouterDeps{
		OrderUC:           order.NewOrderUseCase(repos, store, log, rec),
		RequirementsUC:    planning.NewRequirementsUseCase(repos),
		ReorderUC:         planning.NewReorderUseCase(repos.Inventory, xlsx.NewAlertSheetGenerator()),
		MaterialRequestUC: procurement.NewMaterialRequestUseCase(repos, store, log, rec),
		PurchaseOrderUC:   procurement.NewPurchaseOrderUseCase(repos, store, log, rec),
		ProductionUC:      production.NewProductionUseCase(repos, store, log, rec),
		VarianceUC:        analytics.NewVarianceUseCase(repos, pdf.NewVarianceReportGenerator()),
		DashboardUC:       analytics.NewDashboardUseCase(repos),
		CatalogUC:         usecase.NewCatalogUseCase(repos.BOM),
		TeamUC:            usecase.NewTeamUseCase(repos),
		TokenUC:           auth.NewTokenUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		JWTSecret:         testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, authHeader string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func createOrder(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/orders", tokenFor(t, salesID, entity.RoleSales), map[string]any{
		"customer_name": "Textiles Andinos",
		"product_name":  "Camisa",
		"quantity":      10,
		"delivery_date": "2026-12-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "PENDING", out.Status)
	return out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthEsPublico(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func TestRouter_ApiSinToken_Retorna401(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, _ := call(t, app, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CapacidadPorRuta(t *testing.T) {
	app := newAPI(t, nil, nil)

	resp, _ := call(t, app, http.MethodGet, "/api/inventory", tokenFor(t, salesID, entity.RoleSales), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "ventas no ve inventario")

	resp, _ = call(t, app, http.MethodGet, "/api/management/stats", tokenFor(t, managerID, entity.RolePPCManager), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/management/stats", tokenForRole(t, entity.RoleManagement), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ValidacionDeCuerpo(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, body := call(t, app, http.MethodPost, "/api/orders", tokenFor(t, salesID, entity.RoleSales), map[string]any{
		"customer_name": "X",
		"product_name":  "Camisa",
		"quantity":      0,
		"delivery_date": "01/12/2026",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
	assert.Contains(t, string(body), "quantity")
	assert.Contains(t, string(body), "delivery_date")
}

func TestRouter_ProductoSinBOM_Retorna404(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, body := call(t, app, http.MethodPost, "/api/orders", tokenFor(t, salesID, entity.RoleSales), map[string]any{
		"customer_name": "X",
		"product_name":  "Pantalón",
		"quantity":      1,
		"delivery_date": "2026-12-01",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestRouter_PedidoInexistente_Retorna404(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, _ := call(t, app, http.MethodGet, "/api/orders/no-existe", tokenFor(t, managerID, entity.RolePPCManager), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_FlujoPlaneacion(t *testing.T) {
	app := newAPI(t, nil, nil)
	orderID := createOrder(t, app)
	manager := tokenFor(t, managerID, entity.RolePPCManager)

	resp, body := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/assign", manager, map[string]string{"user_id": plannerID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// El planificador asignado ve el pedido en sus tareas.
	planner := tokenFor(t, plannerID, entity.RolePPCEmployee)
	resp, body = call(t, app, http.MethodGet, "/api/orders/my-tasks", planner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), orderID)

	resp, body = call(t, app, http.MethodPost, "/api/ppc/lock", planner, map[string]string{"order_id": orderID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "CALCULATING")

	resp, _ = call(t, app, http.MethodPost, "/api/ppc/lock", planner, map[string]string{"order_id": orderID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "un pedido bloqueado no se vuelve a bloquear")

	resp, body = call(t, app, http.MethodGet, "/api/ppc/orders/"+orderID+"/requirements", planner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var reqs struct {
		HasShortage bool `json:"has_shortage"`
		Materials   []struct {
			Material string `json:"material"`
		} `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(body, &reqs))
	assert.True(t, reqs.HasShortage)
	require.Len(t, reqs.Materials, 1)
	assert.Equal(t, "Tela", reqs.Materials[0].Material)

	resp, body = call(t, app, http.MethodPost, "/api/ppc/orders/"+orderID+"/request-materials", planner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Order struct {
			Status string `json:"status"`
		} `json:"order"`
		MaterialRequest *struct {
			Status string `json:"status"`
		} `json:"material_request"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "MATERIAL_REQUESTED", out.Order.Status)
	require.NotNil(t, out.MaterialRequest)
	assert.Equal(t, "PENDING", out.MaterialRequest.Status)

	// La producción exige que todas las líneas de la solicitud estén recibidas.
	resp, _ = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/start-production", planner, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "materiales aún no recibidos")
}

func TestRouter_BOM(t *testing.T) {
	app := newAPI(t, nil, nil)
	tok := tokenFor(t, managerID, entity.RolePPCManager)

	resp, body := call(t, app, http.MethodGet, "/api/bom", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Camisa")

	resp, body = call(t, app, http.MethodGet, "/api/bom?product_name=Camisa", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Tela")
}

func TestRouter_AlertasXLSX(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, body := call(t, app, http.MethodGet, "/api/inventory/alerts.xlsx", tokenForRole(t, entity.RoleMaterialsManager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "un xlsx es un zip")
}

func TestRouter_DevToken(t *testing.T) {
	app := newAPI(t, nil, nil)
	resp, body := call(t, app, http.MethodPost, "/auth/dev-token", "", map[string]string{"user_id": plannerID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var tok struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body, &tok))
	assert.Equal(t, "PPC_EMPLOYEE", tok.Role)

	resp, _ = call(t, app, http.MethodGet, "/api/orders/my-tasks", "Bearer "+tok.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/auth/dev-token", "", map[string]string{"user_id": "nadie"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestLogger_RegistraRutaYEstado(t *testing.T) {
	var buf bytes.Buffer
	obs := &fakeObserver{}
	app := newAPI(t, &buf, obs)

	resp, _ := call(t, app, http.MethodGet, "/api/orders/no-existe", tokenFor(t, managerID, entity.RolePPCManager), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, `"route":"/api/orders/:id"`)
	assert.Contains(t, line, `"status":404`)
	assert.Contains(t, line, `"user_id":"`+managerID+`"`)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.NotEmpty(t, obs.routes)
	assert.True(t, strings.HasPrefix(obs.routes[len(obs.routes)-1], "GET /api/orders/:id"))
}
