package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/auth"
	"github.com/jhoicas/procura-api/internal/application/order"
	"github.com/jhoicas/procura-api/internal/application/planning"
	"github.com/jhoicas/procura-api/internal/application/ports"
	"github.com/jhoicas/procura-api/internal/application/procurement"
	"github.com/jhoicas/procura-api/internal/application/production"
	"github.com/jhoicas/procura-api/internal/application/usecase"
	"github.com/jhoicas/procura-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/procura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procura-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/procura-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/procura-api/internal/interfaces/http"
	"github.com/jhoicas/procura-api/pkg/config"
	"github.com/jhoicas/procura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: contador de transiciones en los casos de uso y latencia HTTP en el middleware.
	var (
		recorder ports.TransitionRecorder = ports.NopRecorder{}
		observer httpRouter.RequestObserver
		prom     *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		prom = metrics.New()
		recorder = prom
		observer = prom
	}

	orderUC := order.NewOrderUseCase(repos, txRunner, log, recorder)
	requirementsUC := planning.NewRequirementsUseCase(repos)
	reorderUC := planning.NewReorderUseCase(repos.Inventory, infraxlsx.NewAlertSheetGenerator())
	materialRequestUC := procurement.NewMaterialRequestUseCase(repos, txRunner, log, recorder)
	purchaseOrderUC := procurement.NewPurchaseOrderUseCase(repos, txRunner, log, recorder)
	productionUC := production.NewProductionUseCase(repos, txRunner, log, recorder)
	varianceUC := analytics.NewVarianceUseCase(repos, infrapdf.NewVarianceReportGenerator())
	dashboardUC := analytics.NewDashboardUseCase(repos)
	catalogUC := usecase.NewCatalogUseCase(repos.BOM)
	teamUC := usecase.NewTeamUseCase(repos)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.WithComponent("http"), observer))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Procura API",
		}))
	}

	deps := httpRouter.RouterDeps{
		OrderUC:           orderUC,
		RequirementsUC:    requirementsUC,
		ReorderUC:         reorderUC,
		MaterialRequestUC: materialRequestUC,
		PurchaseOrderUC:   purchaseOrderUC,
		ProductionUC:      productionUC,
		VarianceUC:        varianceUC,
		DashboardUC:       dashboardUC,
		CatalogUC:         catalogUC,
		TeamUC:            teamUC,
		JWTSecret:         cfg.JWT.Secret,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	// Tokens de desarrollo solo fuera de producción.
	if cfg.App.IsDevelopment() {
		deps.TokenUC = auth.NewTokenUseCase(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
