// Package services – FacilityService
//
// This file implements the FacilityService, the read side of the facility
// directory. It validates identifiers, delegates persistence to the repo
// layer, and maps gorm.ErrRecordNotFound onto the service-level
// ErrFacilityNotFound so handlers never see storage internals.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
	"github.com/kosodate-map/go-kosodate-backend/internal/repo"
)

// FacilityService provides facility directory operations: listing, ward
// filtering, favorites resolution, and single-facility lookup.
type FacilityService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewFacilityService constructs a FacilityService.
func NewFacilityService(db *gorm.DB) *FacilityService {
	return &FacilityService{DB: db}
}

// List returns all facilities, optionally restricted to one ward, ordered by
// ward then name.
func (s *FacilityService) List(ctx context.Context, ward string) ([]domain.Facility, error) {
	return repo.ListFacilities(ctx, s.DB, ward)
}

// ListByIDs resolves a client-side favorites list. IDs that are not valid
// UUIDs or no longer exist are silently dropped; the result is whatever the
// directory still knows about.
func (s *FacilityService) ListByIDs(ctx context.Context, ids []string) ([]domain.Facility, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return repo.ListFacilitiesByIDs(ctx, s.DB, valid)
}

// Get fetches a single facility by UUID. Returns ErrInvalidFacilityID for a
// malformed ID and ErrFacilityNotFound when no row exists.
func (s *FacilityService) Get(ctx context.Context, id string) (*domain.Facility, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidFacilityID
	}
	f, err := repo.GetFacility(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return f, nil
}
