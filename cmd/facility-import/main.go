// Command facility-import scrapes the municipal facility directory and
// upserts one row per facility. Rows are keyed by their detail page URL, so
// re-running the import refreshes names and addresses without duplicating
// records.
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kosodate-map/go-kosodate-backend/internal/config"
	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
	"github.com/kosodate-map/go-kosodate-backend/internal/repo"
	"github.com/kosodate-map/go-kosodate-backend/internal/scrape"
	"github.com/kosodate-map/go-kosodate-backend/internal/sysutil"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "parse and log rows without writing to the database")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, true)

	ctx := context.Background()

	fetcher := scrape.NewFetcher(cfg.Scrape)
	rows, err := fetcher.FetchFacilities(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("base_url", cfg.Scrape.BaseURL).Msg("scrape failed")
	}
	log.Info().Int("rows", len(rows)).Msg("listing scraped")

	if *dryRun {
		for _, row := range rows {
			log.Info().Str("name", row.Name).Str("ward", row.WardName).Str("detail_url", row.DetailPageURL).Msg("would upsert")
		}
		return
	}

	db, err := repo.OpenSQLite(cfg.DBPath, false)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("auto-migration failed")
	}

	var stored, failed int
	for _, row := range rows {
		f := &domain.Facility{
			Name:          row.Name,
			WardName:      row.WardName,
			Address:       row.Address,
			Phone:         row.Phone,
			WebsiteURL:    row.WebsiteURL,
			FacilityType:  row.FacilityType,
			DetailPageURL: row.DetailPageURL,
		}
		if _, err := repo.UpsertFacilityByDetailURL(ctx, db, f); err != nil {
			failed++
			log.Error().Err(err).Str("name", row.Name).Msg("upsert failed")
			continue
		}
		stored++
	}
	log.Info().Int("stored", stored).Int("failed", failed).Msg("import finished")
}
