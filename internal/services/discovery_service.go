// Package services – DiscoveryService
//
// This file implements the DiscoveryService, which drives Instagram discovery
// against an external web-search provider: profile discovery for facilities
// without an Instagram URL, and monthly-schedule post discovery for
// facilities that have one.
//
// Query construction, scoring, and candidate processing live in the search
// package; this service owns the I/O loop and its error policy. A transport
// failure on one query only skips that query, while a structured provider
// error (typically an exhausted quota) aborts the whole operation so batch
// callers can stop immediately.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
	"github.com/kosodate-map/go-kosodate-backend/internal/repo"
	"github.com/kosodate-map/go-kosodate-backend/internal/search"
)

// Searcher is the search-provider contract required by DiscoveryService.
// *search.Client satisfies it.
type Searcher interface {
	// Search runs one query and returns its result items.
	Search(ctx context.Context, query string) ([]search.Item, error)
	// Configured reports whether the provider credentials are present.
	Configured() bool
}

// ProfileSearchResult is the outcome of one profile-discovery run: the
// queries that were issued and the processed candidate list, ready for the
// decision policy.
type ProfileSearchResult struct {
	Queries    []string           `json:"queries"`
	Candidates []search.Candidate `json:"candidates"`
}

// ScheduleSearchResult is the outcome of one schedule-discovery run.
type ScheduleSearchResult struct {
	Queries    []string                   `json:"queries"`
	Candidates []search.ScheduleCandidate `json:"candidates"`
}

// DiscoveryService coordinates search-provider calls with the facility
// directory.
type DiscoveryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Search is the external search provider.
	Search Searcher
}

// NewDiscoveryService constructs a DiscoveryService.
func NewDiscoveryService(db *gorm.DB, searcher Searcher) *DiscoveryService {
	return &DiscoveryService{DB: db, Search: searcher}
}

// runQueries issues queries sequentially and collects one result batch per
// query, preserving priority order.
//
// A transport failure is logged and skipped (that query contributes zero
// results); a structured *search.APIError aborts and is returned to the
// caller unchanged so errors.As keeps working.
func (s *DiscoveryService) runQueries(ctx context.Context, queries []string) ([][]search.Item, error) {
	batches := make([][]search.Item, 0, len(queries))
	for _, q := range queries {
		items, err := s.Search.Search(ctx, q)
		if err != nil {
			var apiErr *search.APIError
			if errors.As(err, &apiErr) {
				return nil, err
			}
			log.Warn().Err(err).Str("query", q).Msg("search query failed, skipping")
			batches = append(batches, nil)
			continue
		}
		batches = append(batches, items)
	}
	return batches, nil
}

// SearchProfile discovers Instagram profile candidates for a facility name
// and ward. The stored directory is not consulted or modified; callers that
// start from a facility row use SearchProfileForFacility.
func (s *DiscoveryService) SearchProfile(ctx context.Context, name, ward string, strategy search.Strategy) (*ProfileSearchResult, error) {
	if !s.Search.Configured() {
		return nil, ErrSearchNotConfigured
	}
	queries := search.BuildProfileQueries(name, ward)
	if len(queries) == 0 {
		return nil, ErrEmptyFacilityName
	}
	batches, err := s.runQueries(ctx, queries)
	if err != nil {
		return nil, err
	}
	return &ProfileSearchResult{
		Queries:    queries,
		Candidates: search.ProcessAllResults(batches, name, ward, strategy),
	}, nil
}

// SearchProfileForFacility runs profile discovery for a stored facility.
// Facilities that already carry an Instagram URL are refused with
// ErrAlreadyLinked: stored URLs are authoritative.
func (s *DiscoveryService) SearchProfileForFacility(ctx context.Context, facilityID string, strategy search.Strategy) (*ProfileSearchResult, error) {
	f, err := s.facility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if f.InstagramURL != "" {
		return nil, ErrAlreadyLinked
	}
	return s.SearchProfile(ctx, f.Name, f.WardName, strategy)
}

// AdoptProfile stores a discovered profile URL on a facility after
// re-normalizing it. Used by the batch pipeline and the admin endpoint once
// the decision policy (or a human) has picked a candidate.
func (s *DiscoveryService) AdoptProfile(ctx context.Context, facilityID, profileURL string) (string, error) {
	if _, err := uuid.Parse(facilityID); err != nil {
		return "", ErrInvalidFacilityID
	}
	normalized, ok := instagram.NormalizeProfileURL(profileURL)
	if !ok {
		return "", ErrInvalidProfileURL
	}
	if err := repo.UpdateFacilityInstagramURL(ctx, s.DB, facilityID, normalized); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrFacilityNotFound
		}
		return "", err
	}
	return normalized, nil
}

// SearchSchedule discovers monthly-schedule post candidates. username may be
// empty (facility not yet linked); month must be YYYY-MM.
func (s *DiscoveryService) SearchSchedule(ctx context.Context, name, ward, username, month string) (*ScheduleSearchResult, error) {
	if !s.Search.Configured() {
		return nil, ErrSearchNotConfigured
	}
	if _, _, ok := search.ParseMonth(month); !ok {
		return nil, ErrInvalidMonth
	}
	queries := search.BuildScheduleQueries(name, ward, username, month)
	if len(queries) == 0 {
		return nil, ErrEmptyFacilityName
	}
	batches, err := s.runQueries(ctx, queries)
	if err != nil {
		return nil, err
	}
	var items []search.Item
	for _, b := range batches {
		items = append(items, b...)
	}
	return &ScheduleSearchResult{
		Queries:    queries,
		Candidates: search.ExtractScheduleCandidates(items, month),
	}, nil
}

// SearchScheduleForFacility runs schedule discovery for a stored facility,
// deriving the username from its Instagram URL when present.
func (s *DiscoveryService) SearchScheduleForFacility(ctx context.Context, facilityID, month string) (*ScheduleSearchResult, error) {
	f, err := s.facility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	username := instagram.Username(f.InstagramURL)
	return s.SearchSchedule(ctx, f.Name, f.WardName, username, month)
}

// facility loads a facility by UUID with service-level error mapping.
func (s *DiscoveryService) facility(ctx context.Context, facilityID string) (*domain.Facility, error) {
	if _, err := uuid.Parse(facilityID); err != nil {
		return nil, ErrInvalidFacilityID
	}
	f, err := repo.GetFacility(ctx, s.DB, facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return f, nil
}
