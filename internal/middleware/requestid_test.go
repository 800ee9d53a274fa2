package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// serveRequestID runs one request through RequestIDMiddleware, optionally with
// an upstream X-Request-ID, and returns the response header value and the ID
// the handler saw in its context.
func serveRequestID(t *testing.T, upstreamID string) (headerID, contextID string) {
	t.Helper()

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get(RequestIDKey)
		c.JSON(http.StatusOK, gin.H{"requestId": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if upstreamID != "" {
		req.Header.Set(RequestIDHeader, upstreamID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w.Header().Get(RequestIDHeader), body.RequestID
}

// ---------------------------------------------------------------------------
// RequestIDMiddleware
// ---------------------------------------------------------------------------

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	headerID, contextID := serveRequestID(t, "")

	if headerID == "" {
		t.Fatal("expected X-Request-ID response header to be set")
	}
	if headerID != contextID {
		t.Errorf("header ID %q differs from context ID %q", headerID, contextID)
	}
	// Generated IDs are UUID v4: 36 chars with dashes at fixed offsets.
	if len(headerID) != 36 || strings.Count(headerID, "-") != 4 {
		t.Errorf("generated ID %q is not UUID-shaped", headerID)
	}
}

func TestRequestID_UpstreamIDReused(t *testing.T) {
	const upstream = "lb-7f3a9c-annuaire-0042"

	headerID, contextID := serveRequestID(t, upstream)
	if headerID != upstream {
		t.Errorf("response X-Request-ID = %q, want the upstream value %q", headerID, upstream)
	}
	if contextID != upstream {
		t.Errorf("context ID = %q, want the upstream value %q", contextID, upstream)
	}
}

func TestRequestID_UnsafeUpstreamIDReplaced(t *testing.T) {
	tests := []struct {
		name     string
		upstream string
	}{
		{"oversized", strings.Repeat("a", maxRequestIDLength+1)},
		{"embedded newline", "abc\ndef"},
		{"embedded space", "abc def"},
		{"non-ascii", "requête-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headerID, _ := serveRequestID(t, tt.upstream)
			if headerID == tt.upstream {
				t.Errorf("unsafe upstream ID %q was echoed back verbatim", tt.upstream)
			}
			if len(headerID) != 36 {
				t.Errorf("replacement ID %q is not a fresh UUID", headerID)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	seen := make(map[string]struct{}, 10)
	for i := 0; i < 10; i++ {
		headerID, _ := serveRequestID(t, "")
		if _, dup := seen[headerID]; dup {
			t.Fatalf("duplicate request ID %q on iteration %d", headerID, i)
		}
		seen[headerID] = struct{}{}
	}
}

func TestAcceptableRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"abc-123", true},
		{strings.Repeat("x", maxRequestIDLength), true},
		{strings.Repeat("x", maxRequestIDLength+1), false},
		{"has space", false},
		{"has\ttab", false},
		{"café", false},
	}
	for _, tt := range tests {
		if got := acceptableRequestID(tt.id); got != tt.want {
			t.Errorf("acceptableRequestID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
