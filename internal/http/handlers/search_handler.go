// Discovery admin HTTP handlers.
//
// This file exposes the authenticated endpoints that drive Instagram
// discovery interactively:
//   - POST /admin/search/profile          (profile candidates for a facility or free-form name)
//   - POST /admin/search/schedule         (schedule-post candidates for a month)
//   - POST /admin/facilities/{id}/instagram (store a confirmed profile URL)
//
// The search endpoints never write: they return ranked candidates for a human
// to review. Adoption is an explicit second call.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosodate-map/go-kosodate-backend/internal/search"
	"github.com/kosodate-map/go-kosodate-backend/internal/services"
)

// SearchProfileRequest is the JSON payload for profile discovery. Either
// facility_id or name must be present; ward sharpens free-form searches and
// is ignored when facility_id is set.
type SearchProfileRequest struct {
	FacilityID string `json:"facility_id"`
	Name       string `json:"name"`
	Ward       string `json:"ward"`
	// Strategy is one of score, rank, hybrid; empty defaults to score.
	Strategy string `json:"strategy"`
}

// SearchProfile handles POST /admin/search/profile.
func (h *Handlers) SearchProfile(c *gin.Context) {
	var req SearchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	strategy, valid := parseStrategy(req.Strategy)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "strategy must be one of: score, rank, hybrid")
		return
	}

	var (
		res *services.ProfileSearchResult
		err error
	)
	switch {
	case req.FacilityID != "":
		res, err = h.discSvc.SearchProfileForFacility(c.Request.Context(), req.FacilityID, strategy)
	case req.Name != "":
		res, err = h.discSvc.SearchProfile(c.Request.Context(), req.Name, req.Ward, strategy)
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility_id or name is required")
		return
	}
	if err != nil {
		failDiscovery(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// SearchScheduleRequest is the JSON payload for schedule discovery. Either
// facility_id or name must be present; month is always required.
type SearchScheduleRequest struct {
	FacilityID string `json:"facility_id"`
	Name       string `json:"name"`
	Ward       string `json:"ward"`
	// Username is the Instagram account name when known; with facility_id it
	// is derived from the stored profile URL instead.
	Username string `json:"username"`
	Month    string `json:"month" binding:"required"`
}

// SearchSchedule handles POST /admin/search/schedule.
func (h *Handlers) SearchSchedule(c *gin.Context) {
	var req SearchScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "month is required")
		return
	}

	var (
		res *services.ScheduleSearchResult
		err error
	)
	switch {
	case req.FacilityID != "":
		res, err = h.discSvc.SearchScheduleForFacility(c.Request.Context(), req.FacilityID, req.Month)
	case req.Name != "":
		res, err = h.discSvc.SearchSchedule(c.Request.Context(), req.Name, req.Ward, req.Username, req.Month)
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility_id or name is required")
		return
	}
	if err != nil {
		failDiscovery(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// AdoptProfileRequest is the JSON payload for storing a confirmed profile URL.
type AdoptProfileRequest struct {
	URL string `json:"url" binding:"required"`
}

// AdoptProfileResponse echoes the canonical URL that was stored.
type AdoptProfileResponse struct {
	FacilityID   string `json:"facility_id"`
	InstagramURL string `json:"instagram_url"`
}

// AdoptProfile handles POST /admin/facilities/{id}/instagram.
func (h *Handlers) AdoptProfile(c *gin.Context) {
	var req AdoptProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "url is required")
		return
	}
	id := c.Param("id")
	stored, err := h.discSvc.AdoptProfile(c.Request.Context(), id, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFacilityID):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility id must be a UUID")
		case errors.Is(err, services.ErrInvalidProfileURL):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "url must be an instagram profile url")
		case errors.Is(err, services.ErrFacilityNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "facility not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDB, "could not store instagram url")
		}
		return
	}
	ok(c, http.StatusOK, AdoptProfileResponse{FacilityID: id, InstagramURL: stored})
}

// parseStrategy maps the request field onto a search.Strategy, defaulting to
// score when empty.
func parseStrategy(s string) (search.Strategy, bool) {
	if s == "" {
		return search.StrategyScore, true
	}
	return search.ParseStrategy(s)
}

// failDiscovery translates discovery-service errors into the response
// envelope. Provider errors map to CSE_ERROR with 502 so operators can tell
// an upstream quota problem from a local fault.
func failDiscovery(c *gin.Context, err error) {
	var apiErr *search.APIError
	switch {
	case errors.Is(err, services.ErrInvalidFacilityID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility id must be a UUID")
	case errors.Is(err, services.ErrInvalidMonth):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "month must be formatted as YYYY-MM")
	case errors.Is(err, services.ErrEmptyFacilityName):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility name is empty")
	case errors.Is(err, services.ErrAlreadyLinked):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility already has an instagram url")
	case errors.Is(err, services.ErrFacilityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "facility not found")
	case errors.Is(err, services.ErrSearchNotConfigured):
		fail(c, http.StatusInternalServerError, ErrCodeConfig, "search provider is not configured")
	case errors.As(err, &apiErr):
		fail(c, http.StatusBadGateway, ErrCodeCSE, apiErr.Message)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "discovery failed")
	}
}
