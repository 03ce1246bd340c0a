// migrate aplica las migraciones SQL embebidas contra la base configurada.
//
// Uso: go run ./cmd/migrate
// Lee la configuración igual que el API (DATABASE_URL o DB_*).
package main

import (
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: cfg.App.Name})

	version, err := postgres.Migrate(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Uint("version", version).Msg("esquema al día")
}
