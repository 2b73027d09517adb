// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AdminAuth, the shared-token guard in front of the
// admin route group (schedule registration and discovery endpoints). The
// directory has no user accounts; a single operator token in the X-Admin-Token
// header is the whole authentication story.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// adminTokenHeader carries the operator token on admin requests.
const adminTokenHeader = "X-Admin-Token"

// AdminAuth returns a Gin middleware that admits a request only when its
// X-Admin-Token header equals the configured token.
//
// Behavior:
//   - When the server has no token configured, every admin request fails with
//     500 CONFIG_ERROR: a missing token must read as a deployment mistake,
//     never as an open door.
//   - A missing or mismatching header yields 401 UNAUTHORIZED. The comparison
//     is constant-time and the presented value is never logged.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, _ := c.Get(requestIDKey)

		if token == "" {
			log.Error().Str("request_id", asString(rid)).Msg("admin token not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": asString(rid),
				"code":       "CONFIG_ERROR",
				"message":    "admin access is not configured",
			})
			return
		}

		presented := c.GetHeader(adminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": asString(rid),
				"code":       "UNAUTHORIZED",
				"message":    "invalid admin token",
			})
			return
		}

		c.Next()
	}
}
