// requestid.go tags every request with a correlation identifier. The ID shows
// up in the request log and lets a support question ("my affectation never
// saved") be matched to the exact log lines and journal entries it produced.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the identifier on the wire, inbound and outbound.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key holding the identifier, so the
	// request logger reads it without re-parsing headers.
	RequestIDKey = "request_id"

	// maxRequestIDLength bounds IDs accepted from upstream. Anything longer is
	// replaced, not truncated, since the value ends up verbatim in log output.
	maxRequestIDLength = 128
)

// acceptableRequestID reports whether an upstream-supplied identifier is safe
// to echo into structured logs: non-empty, bounded, printable ASCII with no
// whitespace.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// RequestIDMiddleware ensures every request carries an identifier. An inbound
// X-Request-ID from the reverse proxy is reused when it passes the sanity
// check; otherwise a fresh UUID v4 is generated. The ID is stored under
// RequestIDKey and echoed in the response header either way.
//
// Register it before the metrics and logging middleware so both see the ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !acceptableRequestID(id) {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
