// Package services defines the business logic for facilities, schedules, and
// Instagram discovery. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrFacilityNotFound indicates that the requested facility does not exist.
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrInvalidFacilityID is returned when a facility ID is not a valid UUID.
	ErrInvalidFacilityID = errors.New("invalid facility id")

	// ErrEmptyFacilityName is returned when a search is requested without a
	// facility name to build queries from.
	ErrEmptyFacilityName = errors.New("facility name is empty")

	// ErrInvalidMonth is returned when a month string is not of the form
	// YYYY-MM with a month between 01 and 12.
	ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

	// ErrInvalidPostURL is returned when a URL does not normalize as an
	// Instagram post or reel permalink.
	ErrInvalidPostURL = errors.New("not an instagram post url")

	// ErrInvalidProfileURL is returned when a URL does not normalize as an
	// Instagram profile URL.
	ErrInvalidProfileURL = errors.New("not an instagram profile url")

	// ErrAlreadyLinked is returned when profile discovery is requested for a
	// facility that already has an Instagram URL. Stored URLs are
	// authoritative and are never overwritten by discovery.
	ErrAlreadyLinked = errors.New("facility already has an instagram url")

	// ErrSearchNotConfigured is returned when the external search provider
	// credentials are missing.
	ErrSearchNotConfigured = errors.New("search provider not configured")
)
