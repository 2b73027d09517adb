// Facility HTTP handlers.
//
// This file exposes the public REST endpoints of the directory:
//   - GET /facilities                (list, ward filter, favorites lookup)
//   - GET /facilities/{id}           (detail)
//   - GET /facilities/{id}/schedules (monthly schedule posts)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kosodate-map/go-kosodate-backend/internal/domain"
	"github.com/kosodate-map/go-kosodate-backend/internal/search"
	"github.com/kosodate-map/go-kosodate-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// FacilityService defines the directory read operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type FacilityService interface {
	// List returns all facilities, optionally filtered to one ward.
	List(ctx context.Context, ward string) ([]domain.Facility, error)
	// ListByIDs resolves a favorites list; unknown IDs are dropped.
	ListByIDs(ctx context.Context, ids []string) ([]domain.Facility, error)
	// Get fetches a single facility by UUID.
	Get(ctx context.Context, id string) (*domain.Facility, error)
}

// ScheduleService defines schedule registration and listing operations.
type ScheduleService interface {
	// AttachPost registers or replaces the schedule post for a facility/month.
	AttachPost(ctx context.Context, facilityID, month, postURL, notes string) (*domain.Schedule, error)
	// ListForFacility returns a facility's schedules, newest month first.
	ListForFacility(ctx context.Context, facilityID string) ([]domain.Schedule, error)
}

// DiscoveryService defines the Instagram discovery operations behind the
// admin endpoints.
type DiscoveryService interface {
	// SearchProfile discovers profile candidates for a free-form name/ward.
	SearchProfile(ctx context.Context, name, ward string, strategy search.Strategy) (*services.ProfileSearchResult, error)
	// SearchProfileForFacility discovers profile candidates for a stored facility.
	SearchProfileForFacility(ctx context.Context, facilityID string, strategy search.Strategy) (*services.ProfileSearchResult, error)
	// AdoptProfile stores a confirmed profile URL on a facility.
	AdoptProfile(ctx context.Context, facilityID, profileURL string) (string, error)
	// SearchSchedule discovers schedule-post candidates for a name/ward/account.
	SearchSchedule(ctx context.Context, name, ward, username, month string) (*services.ScheduleSearchResult, error)
	// SearchScheduleForFacility discovers schedule-post candidates for a stored facility.
	SearchScheduleForFacility(ctx context.Context, facilityID, month string) (*services.ScheduleSearchResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for facilities, schedules, and
// discovery. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	facSvc   FacilityService
	schedSvc ScheduleService
	discSvc  DiscoveryService
}

// New constructs a Handlers instance bound to the given services.
func New(facSvc FacilityService, schedSvc ScheduleService, discSvc DiscoveryService) *Handlers {
	return &Handlers{facSvc: facSvc, schedSvc: schedSvc, discSvc: discSvc}
}

// ListFacilitiesResponse wraps the facility list.
type ListFacilitiesResponse struct {
	Facilities []domain.Facility `json:"facilities"`
}

// ListFacilities handles GET /facilities.
//
// Query parameters:
//   - ward: restrict the list to one ward (e.g. "東区")
//   - ids:  comma-separated facility UUIDs; when present the response is the
//     favorites lookup and the ward filter is ignored. Unknown or malformed
//     IDs are dropped silently so stale client favorites never error.
func (h *Handlers) ListFacilities(c *gin.Context) {
	if raw := strings.TrimSpace(c.Query("ids")); raw != "" {
		ids := strings.Split(raw, ",")
		for i := range ids {
			ids[i] = strings.TrimSpace(ids[i])
		}
		out, err := h.facSvc.ListByIDs(c.Request.Context(), ids)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeDB, "could not list facilities")
			return
		}
		ok(c, http.StatusOK, ListFacilitiesResponse{Facilities: out})
		return
	}

	out, err := h.facSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("ward")))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDB, "could not list facilities")
		return
	}
	ok(c, http.StatusOK, ListFacilitiesResponse{Facilities: out})
}

// GetFacility handles GET /facilities/{id}.
func (h *Handlers) GetFacility(c *gin.Context) {
	f, err := h.facSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFacilityID):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility id must be a UUID")
		case errors.Is(err, services.ErrFacilityNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "facility not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDB, "could not load facility")
		}
		return
	}
	ok(c, http.StatusOK, f)
}

// ListFacilitySchedulesResponse wraps a facility's schedule posts.
type ListFacilitySchedulesResponse struct {
	Schedules []domain.Schedule `json:"schedules"`
}

// ListFacilitySchedules handles GET /facilities/{id}/schedules.
func (h *Handlers) ListFacilitySchedules(c *gin.Context) {
	out, err := h.schedSvc.ListForFacility(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFacilityID):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility id must be a UUID")
		case errors.Is(err, services.ErrFacilityNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "facility not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDB, "could not list schedules")
		}
		return
	}
	ok(c, http.StatusOK, ListFacilitySchedulesResponse{Schedules: out})
}
