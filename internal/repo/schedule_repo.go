// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Schedule
// model.
//
// Schedules are unique per (facility_id, published_month); writes go through
// UpsertSchedule so the admin form and the batch scripts share one
// create-or-replace path.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
)

// GetSchedule fetches the schedule for a facility/month, or ErrNotFound.
func GetSchedule(ctx context.Context, db *gorm.DB, facilityID string, month time.Time) (*domain.Schedule, error) {
	var s domain.Schedule
	err := db.WithContext(ctx).
		Where("facility_id = ? AND published_month = ?", facilityID, month).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSchedules returns all schedules for a facility, newest month first.
func ListSchedules(ctx context.Context, db *gorm.DB, facilityID string) ([]domain.Schedule, error) {
	var out []domain.Schedule
	err := db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("published_month desc").
		Find(&out).Error
	return out, err
}

// UpsertSchedule creates or replaces the schedule row for
// (facility_id, published_month) and returns the stored row.
//
// The natural-key lookup and the write run inside one transaction so two
// concurrent submissions for the same month cannot both insert.
func UpsertSchedule(ctx context.Context, db *gorm.DB, s *domain.Schedule) (*domain.Schedule, error) {
	var stored domain.Schedule
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Schedule
		err := tx.Where("facility_id = ? AND published_month = ?", s.FacilityID, s.PublishedMonth).
			First(&existing).Error
		switch {
		case err == nil:
			existing.InstagramPostURL = s.InstagramPostURL
			existing.ImageURL = s.ImageURL
			existing.Status = s.Status
			existing.Notes = s.Notes
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			stored = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			s.CreatedAt = time.Now().UTC()
			if err := tx.Create(s).Error; err != nil {
				return err
			}
			stored = *s
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
