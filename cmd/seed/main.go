// seed carga usuarios, BOM e inventario desde CSV y emite tokens de desarrollo
// para los usuarios cargados.
//
// Uso: go run ./cmd/seed [-latin1] [-migrate] [directorio]
// Por defecto lee ./seed (users.csv, bom.csv, inventory.csv; los ausentes se omiten).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/procura-api/internal/application/auth"
	"github.com/jhoicas/procura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/procura-api/internal/infrastructure/seed"
	"github.com/jhoicas/procura-api/pkg/config"
	"github.com/jhoicas/procura-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "decodificar los CSV como ISO-8859-1")
	migrate := flag.Bool("migrate", false, "aplicar migraciones antes de cargar")
	flag.Parse()
	dir := "seed"
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	if *migrate || cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res, err := seed.NewLoader(postgres.NewTxRunner(pool), *latin1).LoadDir(ctx, dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("carga de datos")
	}
	log.Info().
		Int("users", len(res.Users)).
		Int("bom", res.BOM).
		Int("inventory", res.Inventory).
		Msg("datos cargados")

	tokens := auth.NewTokenUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	for _, u := range res.Users {
		tok, err := tokens.Issue(ctx, u.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("emitir token")
			continue
		}
		fmt.Printf("%-20s %-18s %s\n", tok.Name, tok.Role, tok.Token)
	}
}
