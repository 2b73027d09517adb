// Schedule admin HTTP handlers.
//
// This file exposes the authenticated endpoint operators use to attach a
// monthly schedule post to a facility:
//   - POST /admin/schedules
//
// Resubmitting the same facility/month replaces the stored row, so operators
// can correct a wrong permalink without cleanup.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosodate-map/go-kosodate-backend/internal/services"
)

// AttachScheduleRequest is the JSON payload for registering a schedule post.
type AttachScheduleRequest struct {
	// FacilityID is the target facility UUID.
	FacilityID string `json:"facility_id" binding:"required"`
	// Month is the target month in "YYYY-MM" form.
	Month string `json:"month" binding:"required"`
	// PostURL is the Instagram post or reel permalink; it is canonicalized
	// before storage.
	PostURL string `json:"post_url" binding:"required"`
	// Notes is an optional operator annotation.
	Notes string `json:"notes"`
}

// AttachSchedule handles POST /admin/schedules.
func (h *Handlers) AttachSchedule(c *gin.Context) {
	var req AttachScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility_id, month, and post_url are required")
		return
	}

	s, err := h.schedSvc.AttachPost(c.Request.Context(), req.FacilityID, req.Month, req.PostURL, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFacilityID):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "facility id must be a UUID")
		case errors.Is(err, services.ErrInvalidMonth):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "month must be formatted as YYYY-MM")
		case errors.Is(err, services.ErrInvalidPostURL):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "post_url must be an instagram post or reel permalink")
		case errors.Is(err, services.ErrFacilityNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "facility not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDB, "could not store schedule")
		}
		return
	}
	ok(c, http.StatusCreated, s)
}
