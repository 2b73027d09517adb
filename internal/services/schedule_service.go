// Package services – ScheduleService
//
// This file implements the ScheduleService, which manages monthly schedule
// posts attached to facilities. It validates the facility ID, the target
// month, and the Instagram permalink, then writes through the repo layer's
// create-or-replace path so a month can be resubmitted without duplicating
// rows.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
	"github.com/kosodate-map/go-kosodate-backend/internal/repo"
	"github.com/kosodate-map/go-kosodate-backend/internal/search"
)

// ScheduleService provides schedule registration and listing on top of the
// facility directory.
type ScheduleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{DB: db}
}

// AttachPost registers (or replaces) the schedule post for a facility/month.
//
// The post URL is canonicalized before storage; both instagram_post_url and
// image_url receive the normalized permalink, and the row is stored with
// status "published". Returns the stored row.
func (s *ScheduleService) AttachPost(ctx context.Context, facilityID, month, postURL, notes string) (*domain.Schedule, error) {
	if _, err := uuid.Parse(facilityID); err != nil {
		return nil, ErrInvalidFacilityID
	}
	year, m, ok := search.ParseMonth(month)
	if !ok {
		return nil, ErrInvalidMonth
	}
	post, ok := instagram.NormalizePostURL(postURL)
	if !ok {
		return nil, ErrInvalidPostURL
	}

	if _, err := repo.GetFacility(ctx, s.DB, facilityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	return repo.UpsertSchedule(ctx, s.DB, &domain.Schedule{
		FacilityID:       facilityID,
		PublishedMonth:   domain.MonthStart(year, m),
		InstagramPostURL: post.Normalized,
		ImageURL:         post.Normalized,
		Status:           domain.ScheduleStatusPublished,
		Notes:            notes,
	})
}

// ListForFacility returns the facility's schedules, newest month first.
// The facility must exist.
func (s *ScheduleService) ListForFacility(ctx context.Context, facilityID string) ([]domain.Schedule, error) {
	if _, err := uuid.Parse(facilityID); err != nil {
		return nil, ErrInvalidFacilityID
	}
	if _, err := repo.GetFacility(ctx, s.DB, facilityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return repo.ListSchedules(ctx, s.DB, facilityID)
}
