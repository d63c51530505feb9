// Command seedcatalog loads a starter catalog into the local store so a
// fresh terminal has something to sell. Safe to re-run: it replaces the
// categories and products collections wholesale.
package main

import (
	"context"
	"os"
	"time"

	"tokopos/internal/config"
	"tokopos/internal/infra"
	"tokopos/internal/model"
	"tokopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.OpenLocalDB(cfg.LocalDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local store")
	}
	defer db.Close()

	local := repository.NewLocalBackend(db)
	now := time.Now()

	drinks := model.Category{ID: uuid.New(), Name: "Drinks", CreatedAt: now}
	snacks := model.Category{ID: uuid.New(), Name: "Snacks", CreatedAt: now}
	household := model.Category{ID: uuid.New(), Name: "Household", CreatedAt: now}
	categories := []model.Category{drinks, snacks, household}

	products := []model.Product{
		{ID: uuid.New(), Name: "Mineral Water 600ml", Price: decimal.NewFromInt(4000), CategoryID: drinks.ID, Stock: 48, CreatedAt: now},
		{ID: uuid.New(), Name: "Iced Tea Bottle", Price: decimal.NewFromInt(6500), CategoryID: drinks.ID, Stock: 24, CreatedAt: now},
		{ID: uuid.New(), Name: "Drip Coffee Sachet", Price: decimal.NewFromInt(2500), CategoryID: drinks.ID, Stock: 100, CreatedAt: now},
		{ID: uuid.New(), Name: "Potato Chips 68g", Price: decimal.NewFromInt(11000), CategoryID: snacks.ID, Stock: 30, CreatedAt: now},
		{ID: uuid.New(), Name: "Chocolate Wafer", Price: decimal.NewFromInt(8000), CategoryID: snacks.ID, Stock: 36, CreatedAt: now},
		{ID: uuid.New(), Name: "Peanut Pack 200g", Price: decimal.NewFromInt(15000), CategoryID: snacks.ID, Stock: 20, CreatedAt: now},
		{ID: uuid.New(), Name: "Dish Soap 800ml", Price: decimal.NewFromInt(18500), CategoryID: household.ID, Stock: 12, CreatedAt: now},
		{ID: uuid.New(), Name: "Laundry Detergent 1kg", Price: decimal.NewFromInt(24000), CategoryID: household.ID, Stock: 10, CreatedAt: now},
	}

	ctx := context.Background()
	if err := local.WriteCollection(ctx, repository.CollectionCategories, categories); err != nil {
		log.Fatal().Err(err).Msg("failed to write categories")
	}
	if err := local.WriteCollection(ctx, repository.CollectionProducts, products); err != nil {
		log.Fatal().Err(err).Msg("failed to write products")
	}

	log.Info().
		Int("categories", len(categories)).
		Int("products", len(products)).
		Str("path", cfg.LocalDBPath).
		Msg("catalog seeded")
}
