package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
)

// newTestDB opens a throwaway SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedFacility(t *testing.T, db *gorm.DB, name, ward, detailURL string) *domain.Facility {
	t.Helper()
	f, err := CreateFacility(context.Background(), db, &domain.Facility{
		Name:          name,
		WardName:      ward,
		DetailPageURL: detailURL,
	})
	if err != nil {
		t.Fatalf("CreateFacility(%s): %v", name, err)
	}
	return f
}

func TestCreateAndGetFacility(t *testing.T) {
	db := newTestDB(t)
	created := seedFacility(t, db, "あおぞらわらばぁ～", "東区", "https://example.city/detail/1")

	got, err := GetFacility(context.Background(), db, created.ID)
	if err != nil {
		t.Fatalf("GetFacility: %v", err)
	}
	if got.Name != "あおぞらわらばぁ～" || got.WardName != "東区" {
		t.Fatalf("got %+v", got)
	}
}

func TestGetFacility_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetFacility(context.Background(), db, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFacilities_WardFilter(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "ひがし広場", "東区", "https://example.city/detail/1")
	seedFacility(t, db, "きた広場", "北区", "https://example.city/detail/2")

	all, err := ListFacilities(context.Background(), db, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListFacilities(all) = %d facilities, err=%v", len(all), err)
	}

	east, err := ListFacilities(context.Background(), db, "東区")
	if err != nil {
		t.Fatalf("ListFacilities(東区): %v", err)
	}
	if len(east) != 1 || east[0].Name != "ひがし広場" {
		t.Fatalf("ward filter returned %+v", east)
	}
}

func TestListFacilitiesByIDs(t *testing.T) {
	db := newTestDB(t)
	a := seedFacility(t, db, "ひがし広場", "東区", "https://example.city/detail/1")
	seedFacility(t, db, "きた広場", "北区", "https://example.city/detail/2")

	got, err := ListFacilitiesByIDs(context.Background(), db, []string{a.ID, "stale-favorite-id"})
	if err != nil {
		t.Fatalf("ListFacilitiesByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("got %+v, want only the known facility", got)
	}

	empty, err := ListFacilitiesByIDs(context.Background(), db, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty id list must yield empty result, got %v err=%v", empty, err)
	}
}

func TestListFacilitiesMissingInstagram(t *testing.T) {
	db := newTestDB(t)
	missing := seedFacility(t, db, "未発見ひろば", "東区", "https://example.city/detail/1")
	known := seedFacility(t, db, "発見済ひろば", "北区", "https://example.city/detail/2")
	if err := UpdateFacilityInstagramURL(context.Background(), db, known.ID, "https://www.instagram.com/known/"); err != nil {
		t.Fatalf("UpdateFacilityInstagramURL: %v", err)
	}

	got, err := ListFacilitiesMissingInstagram(context.Background(), db)
	if err != nil {
		t.Fatalf("ListFacilitiesMissingInstagram: %v", err)
	}
	if len(got) != 1 || got[0].ID != missing.ID {
		t.Fatalf("got %+v, want only the undiscovered facility", got)
	}

	withURL, err := ListFacilitiesWithInstagram(context.Background(), db)
	if err != nil {
		t.Fatalf("ListFacilitiesWithInstagram: %v", err)
	}
	if len(withURL) != 1 || withURL[0].ID != known.ID {
		t.Fatalf("got %+v, want only the discovered facility", withURL)
	}
}

func TestUpdateFacilityInstagramURL_NotFound(t *testing.T) {
	db := newTestDB(t)
	err := UpdateFacilityInstagramURL(context.Background(), db, "missing", "https://www.instagram.com/x/")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertFacilityByDetailURL_RefreshesExisting(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := UpsertFacilityByDetailURL(ctx, db, &domain.Facility{
		Name:          "旧名称",
		WardName:      "東区",
		DetailPageURL: "https://example.city/detail/1",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := UpsertFacilityByDetailURL(ctx, db, &domain.Facility{
		Name:          "新名称",
		WardName:      "東区",
		Address:       "名古屋市東区1-1",
		DetailPageURL: "https://example.city/detail/1",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a duplicate: %q vs %q", second.ID, first.ID)
	}
	if second.Name != "新名称" || second.Address != "名古屋市東区1-1" {
		t.Fatalf("upsert did not refresh fields: %+v", second)
	}

	all, err := ListFacilities(ctx, db, "")
	if err != nil || len(all) != 1 {
		t.Fatalf("want a single row after re-import, got %d (err=%v)", len(all), err)
	}
}
