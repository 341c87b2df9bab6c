package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/auth"
	"github.com/jhoicas/procura-api/internal/application/order"
	"github.com/jhoicas/procura-api/internal/application/planning"
	"github.com/jhoicas/procura-api/internal/application/procurement"
	"github.com/jhoicas/procura-api/internal/application/production"
	"github.com/jhoicas/procura-api/internal/application/usecase"
	"github.com/jhoicas/procura-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC           *order.OrderUseCase
	RequirementsUC    *planning.RequirementsUseCase
	ReorderUC         *planning.ReorderUseCase
	MaterialRequestUC *procurement.MaterialRequestUseCase
	PurchaseOrderUC   *procurement.PurchaseOrderUseCase
	ProductionUC      *production.ProductionUseCase
	VarianceUC        *analytics.VarianceUseCase
	DashboardUC       *analytics.DashboardUseCase
	CatalogUC         *usecase.CatalogUseCase
	TeamUC            *usecase.TeamUseCase
	TokenUC           *auth.TokenUseCase // nil = sin /auth/dev-token
	MetricsHandler    http.Handler       // nil = sin /metrics
	JWTSecret         string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}
	if deps.TokenUC != nil {
		authHandler := NewAuthHandler(deps.TokenUC)
		app.Post("/auth/dev-token", authHandler.DevToken)
	}

	// Todo lo de /api requiere Bearer Token; cada ruta declara su capacidad.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	can := RequireCapability

	orderHandler := NewOrderHandler(deps.OrderUC, deps.RequirementsUC)
	productionHandler := NewProductionHandler(deps.ProductionUC)

	orders := api.Group("/orders")
	orders.Post("/", can(entity.CapCreateOrder), orderHandler.Create)
	orders.Get("/", can(entity.CapViewOrders), orderHandler.List)
	orders.Get("/my-tasks", can(entity.CapViewOwnOrders), orderHandler.MyTasks)
	orders.Get("/:id", can(entity.CapViewOrders), orderHandler.GetByID)
	orders.Post("/:id/assign", can(entity.CapAssignOrder), orderHandler.Assign)
	orders.Put("/:id/unassign", can(entity.CapAssignOrder), orderHandler.Unassign)
	orders.Post("/:id/cancel", can(entity.CapCancelOrder), orderHandler.Cancel)
	orders.Post("/:id/start-production", can(entity.CapPlanOrder), productionHandler.Start)

	ppc := api.Group("/ppc", can(entity.CapPlanOrder))
	ppc.Post("/lock", orderHandler.Lock)
	ppc.Get("/orders/:id/requirements", orderHandler.Requirements)
	ppc.Post("/orders/:id/request-materials", orderHandler.RequestMaterials)

	mrHandler := NewMaterialRequestHandler(deps.MaterialRequestUC)
	mrs := api.Group("/material-requests")
	mrs.Get("/", can(entity.CapViewRequests), mrHandler.List)
	mrs.Post("/", can(entity.CapRequestReplenish), mrHandler.CreateReplenishment)
	mrs.Get("/my-tasks", can(entity.CapViewOwnRequests), mrHandler.MyTasks)
	mrs.Get("/:id", can(entity.CapViewRequests), mrHandler.GetByID)
	mrs.Post("/:id/assign", can(entity.CapAssignRequest), mrHandler.Assign)
	mrs.Put("/:id/unassign", can(entity.CapAssignRequest), mrHandler.Unassign)
	mrs.Post("/:id/verify", can(entity.CapVerifyRequest), mrHandler.Verify)
	mrs.Post("/:id/approve", can(entity.CapApproveRequest), mrHandler.Approve)

	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	pos := api.Group("/purchase-orders")
	pos.Get("/", can(entity.CapViewPurchaseOrders), poHandler.List)
	pos.Post("/", can(entity.CapCreatePurchase), poHandler.Create)
	pos.Put("/:id/receive", can(entity.CapReceivePurchase), poHandler.Receive)

	prod := api.Group("/production")
	prod.Get("/", can(entity.CapViewOrders), productionHandler.List)
	prod.Post("/:id/complete", can(entity.CapPlanOrder), productionHandler.Complete)

	invHandler := NewInventoryHandler(deps.ReorderUC, deps.CatalogUC)
	inv := api.Group("/inventory", can(entity.CapViewInventory))
	inv.Get("/", invHandler.List)
	inv.Get("/alerts", invHandler.Alerts)
	inv.Get("/alerts.xlsx", invHandler.AlertsSheet)
	api.Get("/bom", can(entity.CapViewInventory), invHandler.BOM)

	analyticsHandler := NewAnalyticsHandler(deps.VarianceUC, deps.DashboardUC)
	variance := api.Group("/variance", can(entity.CapViewVariance))
	variance.Get("/", analyticsHandler.ListVariances)
	variance.Get("/order/:id", analyticsHandler.OrderVariance)
	variance.Get("/order/:id/report.pdf", analyticsHandler.OrderVariancePDF)
	api.Get("/management/stats", can(entity.CapViewStats), analyticsHandler.Stats)

	teamHandler := NewTeamHandler(deps.TeamUC)
	api.Get("/team/ppc", can(entity.CapViewPPCTeam), teamHandler.PPC)
	api.Get("/team/materials", can(entity.CapViewMaterialsTeam), teamHandler.Materials)
}
