package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kosodate-map/go-kosodate-backend/internal/search"
	"github.com/kosodate-map/go-kosodate-backend/internal/services"
)

func TestSearchProfile_ReturnsCandidates(t *testing.T) {
	db := newDirDB(t)
	disc := stubDiscovery{
		profile: func(_ context.Context, name, ward string, strategy search.Strategy) (*services.ProfileSearchResult, error) {
			if name != "あおぞらひろば" || ward != "東区" || strategy != search.StrategyRank {
				t.Fatalf("unexpected args: %q %q %q", name, ward, strategy)
			}
			return &services.ProfileSearchResult{
				Queries: []string{"q1"},
				Candidates: []search.Candidate{
					{URL: "https://www.instagram.com/aozora/", Score: 9},
				},
			}, nil
		},
	}
	r := newEngine(t, db, disc)

	w := doJSON(t, r, http.MethodPost, "/admin/search/profile",
		`{"name":"あおぞらひろば","ward":"東区","strategy":"rank"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp services.ProfileSearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].URL != "https://www.instagram.com/aozora/" {
		t.Fatalf("got %+v", resp.Candidates)
	}
}

func TestSearchProfile_Validation(t *testing.T) {
	r := newEngine(t, newDirDB(t), stubDiscovery{})

	// Neither facility_id nor name.
	w := doJSON(t, r, http.MethodPost, "/admin/search/profile", `{"ward":"東区"}`)
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeBadRequest {
		t.Fatalf("status = %d, code = %s", w.Code, errCode(t, w))
	}

	// Unknown strategy.
	w = doJSON(t, r, http.MethodPost, "/admin/search/profile", `{"name":"x","strategy":"ml"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestSearchProfile_ProviderErrorMapsToCSE(t *testing.T) {
	disc := stubDiscovery{
		profile: func(context.Context, string, string, search.Strategy) (*services.ProfileSearchResult, error) {
			return nil, &search.APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded"}
		},
	}
	r := newEngine(t, newDirDB(t), disc)

	w := doJSON(t, r, http.MethodPost, "/admin/search/profile", `{"name":"あおぞらひろば"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", w.Code, w.Body.String())
	}
	if got := errCode(t, w); got != ErrCodeCSE {
		t.Fatalf("code = %s, want %s", got, ErrCodeCSE)
	}
}

func TestSearchProfile_NotConfiguredMapsToConfigError(t *testing.T) {
	disc := stubDiscovery{
		profile: func(context.Context, string, string, search.Strategy) (*services.ProfileSearchResult, error) {
			return nil, services.ErrSearchNotConfigured
		},
	}
	r := newEngine(t, newDirDB(t), disc)

	w := doJSON(t, r, http.MethodPost, "/admin/search/profile", `{"name":"あおぞらひろば"}`)
	if w.Code != http.StatusInternalServerError || errCode(t, w) != ErrCodeConfig {
		t.Fatalf("status = %d, code = %s", w.Code, errCode(t, w))
	}
}

func TestSearchSchedule(t *testing.T) {
	disc := stubDiscovery{
		schedule: func(_ context.Context, name, _, _, month string) (*services.ScheduleSearchResult, error) {
			if month != "2025-05" {
				t.Fatalf("month = %q", month)
			}
			return &services.ScheduleSearchResult{
				Candidates: []search.ScheduleCandidate{{URL: "https://www.instagram.com/p/MAY/"}},
			}, nil
		},
	}
	r := newEngine(t, newDirDB(t), disc)

	w := doJSON(t, r, http.MethodPost, "/admin/search/schedule",
		`{"name":"あおぞらひろば","ward":"東区","month":"2025-05"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	// month is mandatory at the binding layer.
	w = doJSON(t, r, http.MethodPost, "/admin/search/schedule", `{"name":"あおぞらひろば"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestAdoptProfile(t *testing.T) {
	db := newDirDB(t)
	f := seedFacility(t, db, "あおぞらひろば", "東区", "https://example.city/detail/1")
	// Real discovery service so the URL actually lands in the DB.
	disc := services.NewDiscoveryService(db, nil)
	r := newEngine(t, db, disc)

	w := doJSON(t, r, http.MethodPost, "/admin/facilities/"+f.ID+"/instagram",
		`{"url":"http://instagram.com/aozora?hl=ja"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp AdoptProfileResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.InstagramURL != "https://www.instagram.com/aozora/" {
		t.Fatalf("got %+v", resp)
	}

	w = doJSON(t, r, http.MethodPost, "/admin/facilities/"+f.ID+"/instagram",
		`{"url":"https://www.instagram.com/p/ABC/"}`)
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeBadRequest {
		t.Fatalf("a post permalink must be rejected: %d %s", w.Code, w.Body.String())
	}
}
