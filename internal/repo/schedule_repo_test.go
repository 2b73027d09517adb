package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
)

func TestUpsertSchedule_InsertThenReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedFacility(t, db, "ひがし広場", "東区", "https://example.city/detail/1")
	month := domain.MonthStart(2025, 5)

	first, err := UpsertSchedule(ctx, db, &domain.Schedule{
		FacilityID:       f.ID,
		PublishedMonth:   month,
		InstagramPostURL: "https://www.instagram.com/p/OLD/",
		ImageURL:         "https://www.instagram.com/p/OLD/",
		Status:           domain.ScheduleStatusPublished,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	second, err := UpsertSchedule(ctx, db, &domain.Schedule{
		FacilityID:       f.ID,
		PublishedMonth:   month,
		InstagramPostURL: "https://www.instagram.com/p/NEW/",
		ImageURL:         "https://www.instagram.com/p/NEW/",
		Status:           domain.ScheduleStatusPublished,
		Notes:            "差し替え",
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second row for the same month: %q vs %q", second.ID, first.ID)
	}
	if second.InstagramPostURL != "https://www.instagram.com/p/NEW/" || second.Notes != "差し替え" {
		t.Fatalf("row not replaced: %+v", second)
	}

	all, err := ListSchedules(ctx, db, f.ID)
	if err != nil || len(all) != 1 {
		t.Fatalf("want a single schedule row, got %d (err=%v)", len(all), err)
	}
}

func TestUpsertSchedule_DistinctMonths(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedFacility(t, db, "ひがし広場", "東区", "https://example.city/detail/1")

	for _, m := range []int{4, 5} {
		_, err := UpsertSchedule(ctx, db, &domain.Schedule{
			FacilityID:       f.ID,
			PublishedMonth:   domain.MonthStart(2025, m),
			InstagramPostURL: "https://www.instagram.com/p/ABC/",
			Status:           domain.ScheduleStatusPublished,
		})
		if err != nil {
			t.Fatalf("upsert month %d: %v", m, err)
		}
	}

	all, err := ListSchedules(ctx, db, f.ID)
	if err != nil || len(all) != 2 {
		t.Fatalf("want 2 schedule rows, got %d (err=%v)", len(all), err)
	}
	// Newest month first.
	if !all[0].PublishedMonth.After(all[1].PublishedMonth) {
		t.Fatalf("schedules not ordered newest first: %v then %v", all[0].PublishedMonth, all[1].PublishedMonth)
	}
}

func TestGetSchedule_NotFound(t *testing.T) {
	db := newTestDB(t)
	f := seedFacility(t, db, "ひがし広場", "東区", "https://example.city/detail/1")
	_, err := GetSchedule(context.Background(), db, f.ID, domain.MonthStart(2025, 5))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
