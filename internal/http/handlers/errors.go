// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes the symbolic error codes mapped to HTTP responses via
// the fail() helper in this package. The codes give clients a stable,
// machine-readable error taxonomy alongside the human-readable messages.
//
// Conventions:
//   - Codes are uppercase SNAKE_CASE.
//   - Generic codes (BAD_REQUEST, UNAUTHORIZED, NOT_FOUND, ...) mirror common
//     HTTP status semantics.
//   - Domain-specific codes name the subsystem that failed: DB_ERROR for
//     persistence, CSE_ERROR for the external search provider, CONFIG_ERROR
//     for deployment mistakes such as a missing admin token.
//   - All error responses carry both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "NOT_FOUND",
//	  "message": "facility not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	// Domain-specific:
	ErrCodeConfig = "CONFIG_ERROR"
	ErrCodeDB     = "DB_ERROR"
	ErrCodeCSE    = "CSE_ERROR"
)
