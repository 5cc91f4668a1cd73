package middleware

import (
	"github.com/gin-gonic/gin"
)

// Session context and header keys
const (
	SessionIDKey    = "session_id"
	SessionIDHeader = "X-Session-ID"
)

// Session attaches a shopper session ID to the request. The storefront
// sends the ID it was given in the X-Session-ID header; first-time
// visitors get a fresh one, echoed back so the client can keep it.
// IDs longer than 64 characters are treated as absent and replaced.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionIDHeader)
		if sessionID == "" || len(sessionID) > 64 {
			sessionID = newID()
		}
		c.Set(SessionIDKey, sessionID)
		c.Writer.Header().Set(SessionIDHeader, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID attached by the Session middleware
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
