// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Facility
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a facility is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateFacility inserts a new facility row. The ID is a randomly generated
// UUID and CreatedAt is set to UTC.
func CreateFacility(ctx context.Context, db *gorm.DB, f *domain.Facility) (*domain.Facility, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// GetFacility fetches a single facility by ID, or ErrNotFound.
func GetFacility(ctx context.Context, db *gorm.DB, id string) (*domain.Facility, error) {
	var f domain.Facility
	err := db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFacilities returns facilities ordered by ward then name. When ward is
// non-empty the list is restricted to that ward.
func ListFacilities(ctx context.Context, db *gorm.DB, ward string) ([]domain.Facility, error) {
	q := db.WithContext(ctx).Order("ward_name asc, name asc")
	if ward != "" {
		q = q.Where("ward_name = ?", ward)
	}
	var out []domain.Facility
	err := q.Find(&out).Error
	return out, err
}

// ListFacilitiesByIDs returns the facilities whose IDs appear in ids,
// ordered by ward then name. Unknown IDs are silently absent from the
// result; the favorites feature treats them as stale client state.
func ListFacilitiesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Facility, error) {
	if len(ids) == 0 {
		return []domain.Facility{}, nil
	}
	var out []domain.Facility
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("ward_name asc, name asc").
		Find(&out).Error
	return out, err
}

// ListFacilitiesMissingInstagram returns facilities whose instagram_url is
// still empty, in stable order. The discovery batch walks this list; rows
// with a URL are authoritative and never revisited.
func ListFacilitiesMissingInstagram(ctx context.Context, db *gorm.DB) ([]domain.Facility, error) {
	var out []domain.Facility
	err := db.WithContext(ctx).
		Where("instagram_url = '' OR instagram_url IS NULL").
		Order("ward_name asc, name asc").
		Find(&out).Error
	return out, err
}

// ListFacilitiesWithInstagram returns facilities that already carry a
// profile URL; the schedule batch only makes sense for these.
func ListFacilitiesWithInstagram(ctx context.Context, db *gorm.DB) ([]domain.Facility, error) {
	var out []domain.Facility
	err := db.WithContext(ctx).
		Where("instagram_url <> '' AND instagram_url IS NOT NULL").
		Order("ward_name asc, name asc").
		Find(&out).Error
	return out, err
}

// UpdateFacilityInstagramURL sets the discovered profile URL on a facility.
// Returns ErrNotFound when the facility does not exist.
func UpdateFacilityInstagramURL(ctx context.Context, db *gorm.DB, id, instagramURL string) error {
	res := db.WithContext(ctx).
		Model(&domain.Facility{}).
		Where("id = ?", id).
		Update("instagram_url", instagramURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertFacilityByDetailURL creates or updates a facility keyed by its
// municipal detail page URL. The importer calls this per scraped row, so a
// re-run refreshes names/addresses without duplicating records. Facilities
// without a detail URL are always inserted.
func UpsertFacilityByDetailURL(ctx context.Context, db *gorm.DB, f *domain.Facility) (*domain.Facility, error) {
	if f.DetailPageURL == "" {
		return CreateFacility(ctx, db, f)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "detail_page_url"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "ward_name", "address", "phone", "website_url", "facility_type", "updated_at",
			}),
		}).
		Create(f).Error
	if err != nil {
		return nil, err
	}
	var stored domain.Facility
	if err := db.WithContext(ctx).Where("detail_page_url = ?", f.DetailPageURL).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
