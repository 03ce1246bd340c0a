// seed_products crea los productos iniciales del catálogo (get-or-create por
// nombre, idempotente). El API no expone alta de productos: el catálogo se
// siembra con este comando.
//
// Uso: go run ./cmd/seed_products
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// seedProducts catálogo inicial.
var seedProducts = []entity.Product{
	{
		Name:        "ProductA",
		Description: "Producto de demostración del kardex",
		Price:       decimal.RequireFromString("2.00"),
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: cfg.App.Name})

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repo := postgres.NewProductRepository(pool)
	for _, p := range seedProducts {
		existing, err := repo.GetByName(p.Name)
		if err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("consultar producto")
		}
		if existing != nil {
			log.Info().Str("product", p.Name).Str("id", existing.ID).Msg("ya existe, sin cambios")
			continue
		}
		now := time.Now()
		p.ID = uuid.New().String()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := repo.Create(&p); err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("crear producto")
		}
		log.Info().Str("product", p.Name).Str("id", p.ID).Msg("producto creado")
	}
}
