// Command schedule-backfill discovers monthly-schedule Instagram posts for
// facilities that already have a profile URL. For each facility it runs the
// schedule search pipeline for the target month, applies the decision policy,
// and upserts the schedule row when exactly one well-hinted feed post is
// found. Reels are never adopted automatically; they land in the review
// report instead.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kosodate-map/go-kosodate-backend/internal/config"
	"github.com/kosodate-map/go-kosodate-backend/internal/repo"
	"github.com/kosodate-map/go-kosodate-backend/internal/review"
	"github.com/kosodate-map/go-kosodate-backend/internal/search"
	"github.com/kosodate-map/go-kosodate-backend/internal/services"
	"github.com/kosodate-map/go-kosodate-backend/internal/sysutil"
)

// jst is the timezone the municipal schedules are published in; the default
// target month follows it rather than the host clock's zone.
var jst = time.FixedZone("JST", 9*60*60)

func main() {
	month := flag.String("month", time.Now().In(jst).Format("2006-01"), "target month (YYYY-MM)")
	reportPath := flag.String("report", "schedule-backfill-report.md", "path for the review report")
	limit := flag.Int("limit", 0, "stop after this many facilities (0 = all)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, true)

	if _, _, ok := search.ParseMonth(*month); !ok {
		log.Fatal().Str("month", *month).Msg("month must be formatted as YYYY-MM")
	}

	searcher := search.NewClient(cfg.Search.APIKey, cfg.Search.EngineID)
	if !searcher.Configured() {
		log.Fatal().Msg("GOOGLE_CSE_API_KEY and GOOGLE_CSE_ENGINE_ID must be set")
	}

	db, err := repo.OpenSQLite(cfg.DBPath, false)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("auto-migration failed")
	}

	ctx := context.Background()
	disc := services.NewDiscoveryService(db, searcher)
	schedules := services.NewScheduleService(db)

	facilities, err := repo.ListFacilitiesWithInstagram(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("list facilities failed")
	}
	log.Info().Int("facilities", len(facilities)).Str("month", *month).Msg("schedule backfill starting")

	report := review.NewReport(string(search.StrategyScore))
	report.Month = *month

	for i, f := range facilities {
		if *limit > 0 && i >= *limit {
			break
		}
		if i > 0 {
			time.Sleep(cfg.Search.QueryDelay)
		}

		result, err := disc.SearchScheduleForFacility(ctx, f.ID, *month)
		if err != nil {
			entry := review.Entry{
				FacilityID:   f.ID,
				FacilityName: f.Name,
				WardName:     f.WardName,
				Action:       string(search.ActionSkip),
				Reason:       "provider_error",
				Err:          err.Error(),
			}
			report.Add(entry)
			var apiErr *search.APIError
			if errors.As(err, &apiErr) {
				log.Error().Err(err).Bool("quota_exceeded", apiErr.QuotaExceeded()).Msg("provider error, aborting run")
				break
			}
			log.Error().Err(err).Str("facility", f.Name).Msg("search failed, skipping facility")
			continue
		}

		d := search.DecideSchedule(result.Candidates)
		entry := review.Entry{
			FacilityID:         f.ID,
			FacilityName:       f.Name,
			WardName:           f.WardName,
			Action:             string(d.Action),
			Reason:             d.Reason,
			Queries:            result.Queries,
			ScheduleCandidates: result.Candidates,
		}
		if d.Action == search.ActionAdopt {
			postURL := result.Candidates[d.SelectedIndex].URL
			if _, attachErr := schedules.AttachPost(ctx, f.ID, *month, postURL, "schedule-backfill"); attachErr != nil {
				entry.Action = string(search.ActionSkip)
				entry.Reason = "attach_failed"
				entry.Err = attachErr.Error()
				log.Error().Err(attachErr).Str("facility", f.Name).Msg("attach failed")
			} else {
				entry.SelectedURL = postURL
				log.Info().Str("facility", f.Name).Str("url", postURL).Msg("schedule adopted")
			}
		}
		report.Add(entry)
	}

	if err := os.WriteFile(*reportPath, []byte(report.Markdown()), 0o644); err != nil {
		log.Error().Err(err).Str("path", *reportPath).Msg("write report failed")
	} else {
		log.Info().Str("path", *reportPath).Msg("report written")
	}
	counts := report.Counts()
	log.Info().
		Int("adopt", counts[string(search.ActionAdopt)]).
		Int("skip", counts[string(search.ActionSkip)]).
		Int("not_found", counts[string(search.ActionNotFound)]).
		Msg("schedule backfill finished")
}
