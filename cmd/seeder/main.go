package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bling_travel/internal/adapters/observability"
	"bling_travel/internal/domain"
	"bling_travel/internal/shared"
	mysqlrepo "bling_travel/internal/storage/mysql"
)

// seeder loads the tour package catalog from a JSON file into MySQL.
func main() {
	file := flag.String("file", "seed/tour_packages.json", "path to the catalog JSON file")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read seed file failed")
	}
	var packages []domain.TourPackage
	if err := json.Unmarshal(raw, &packages); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}
	log.Info().Int("packages", len(packages)).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	catalog := mysqlrepo.NewCatalog(db)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, p := range packages {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(pkg domain.TourPackage) {
			defer wg.Done()
			defer sem.Release(1)

			if err := catalog.UpsertPackage(ctx, pkg); err != nil {
				log.Warn().Int64("id", pkg.ID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", pkg.ID).Str("package", pkg.PackageName).Msg("seed ok")
		}(p)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
