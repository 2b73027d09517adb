// Command instagram-backfill discovers Instagram profiles for facilities that
// do not have one yet. For each facility it runs the profile search pipeline,
// applies the decision policy, and either stores the adopted URL or records
// the outcome for review. A review report is written at the end of the run.
//
// A structured provider error (typically an exhausted daily quota) aborts the
// whole run; transport hiccups only cost individual queries.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
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

func main() {
	strategyFlag := flag.String("strategy", "", "candidate strategy: score, rank, or hybrid (default: SEARCH_STRATEGY)")
	autoAdopt := flag.Bool("auto-adopt", false, "allow non-interactive adoption for rank/hybrid single candidates")
	interactive := flag.Bool("interactive", false, "prompt for a choice per facility")
	reportPath := flag.String("report", "instagram-backfill-report.md", "path for the review report")
	limit := flag.Int("limit", 0, "stop after this many facilities (0 = all)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, true)

	strategyName := cfg.Search.Strategy
	if *strategyFlag != "" {
		strategyName = *strategyFlag
	}
	strategy, ok := search.ParseStrategy(strategyName)
	if !ok {
		log.Fatal().Str("strategy", strategyName).Msg("strategy must be score, rank, or hybrid")
	}
	adopt := *autoAdopt || cfg.Search.AutoAdopt

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

	facilities, err := repo.ListFacilitiesMissingInstagram(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("list facilities failed")
	}
	log.Info().Int("facilities", len(facilities)).Str("strategy", string(strategy)).Bool("auto_adopt", adopt).Msg("backfill starting")

	report := review.NewReport(string(strategy))
	stdin := bufio.NewReader(os.Stdin)

	for i, f := range facilities {
		if *limit > 0 && i >= *limit {
			break
		}
		if i > 0 {
			time.Sleep(cfg.Search.QueryDelay)
		}

		result, err := disc.SearchProfile(ctx, f.Name, f.WardName, strategy)
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

		var userInput *string
		if *interactive && len(result.Candidates) > 0 {
			printCandidates(f.Name, f.WardName, result.Candidates)
			answer, readErr := stdin.ReadString('\n')
			if readErr != nil {
				answer = "skip"
			}
			answer = strings.TrimSpace(answer)
			userInput = &answer
		}

		d := search.DecideProfile(search.ProfileDecisionInput{
			Candidates:  result.Candidates,
			Strategy:    strategy,
			Interactive: *interactive,
			AutoAdopt:   adopt,
			UserInput:   userInput,
		})

		entry := review.Entry{
			FacilityID:   f.ID,
			FacilityName: f.Name,
			WardName:     f.WardName,
			Action:       string(d.Action),
			Reason:       d.Reason,
			Queries:      result.Queries,
			Candidates:   result.Candidates,
		}
		if d.Action == search.ActionAdopt {
			stored, adoptErr := disc.AdoptProfile(ctx, f.ID, result.Candidates[d.SelectedIndex].URL)
			if adoptErr != nil {
				entry.Action = string(search.ActionSkip)
				entry.Reason = "adopt_failed"
				entry.Err = adoptErr.Error()
				log.Error().Err(adoptErr).Str("facility", f.Name).Msg("adopt failed")
			} else {
				entry.SelectedURL = stored
				log.Info().Str("facility", f.Name).Str("url", stored).Str("reason", d.Reason).Msg("profile adopted")
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
		Msg("backfill finished")
}

// printCandidates shows the ranked candidates and the interactive prompt.
func printCandidates(name, ward string, cands []search.Candidate) {
	fmt.Printf("\n%s（%s）\n", name, ward)
	for i, c := range cands {
		fmt.Printf("  %d. %s (score %d: %s)\n", i+1, c.URL, c.Score, strings.Join(c.Reasons, ", "))
	}
	fmt.Print("adopt [number], (s)kip, or (n)ot found: ")
}
