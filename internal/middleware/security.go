// security.go sets browser protection headers on every response. The annuaire
// API serves JSON plus export downloads (CSV, JSON, XLSX), so the profile the
// router wires in forbids active content outright; a second profile exists for
// the organigramme pages the university portal embeds in an iframe.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig selects which protection headers are emitted. String
// fields left empty suppress their header entirely.
type SecurityHeadersConfig struct {
	EnableHSTS            bool
	HSTSMaxAgeSeconds     int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	// FrameOptions is DENY or SAMEORIGIN; empty omits X-Frame-Options.
	FrameOptions       string
	ContentTypeNosniff bool
	// LegacyXSSFilter emits X-XSS-Protection for old browsers. Pointless for
	// pure JSON responses.
	LegacyXSSFilter       bool
	ContentSecurityPolicy string
	ReferrerPolicy        string
	PermissionsPolicy     string
	// ResourcePolicy is the Cross-Origin-Resource-Policy value. The API uses
	// same-site so the annuaire frontend on a sibling subdomain can fetch
	// export files.
	ResourcePolicy string
}

// APISecurityHeadersConfig is the profile for the JSON API and export
// downloads: nothing executes, nothing frames us, referrers stay home.
func APISecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableHSTS:            true,
		HSTSMaxAgeSeconds:     31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		ResourcePolicy:        "same-site",
	}
}

// PortalSecurityHeadersConfig is the profile for browser-rendered organigramme
// pages. SAMEORIGIN framing keeps the intranet embed working, the CSP allows
// the inline print styles and data: images the organigramme view uses, and the
// permissions policy switches off device access while leaving same-origin
// fullscreen for the organigramme viewer.
func PortalSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableHSTS:            true,
		HSTSMaxAgeSeconds:     31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "SAMEORIGIN",
		ContentTypeNosniff:    true,
		LegacyXSSFilter:       true,
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), fullscreen=(self)",
		ResourcePolicy:        "same-origin",
	}
}

type headerPair struct {
	name  string
	value string
}

// buildSecurityHeaders assembles the response header list once, at router
// construction, so per-request work is a plain loop of c.Header calls.
func buildSecurityHeaders(cfg SecurityHeadersConfig) []headerPair {
	var headers []headerPair

	if cfg.EnableHSTS {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAgeSeconds)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers = append(headers, headerPair{"Strict-Transport-Security", hsts})
	}
	if cfg.FrameOptions != "" {
		headers = append(headers, headerPair{"X-Frame-Options", cfg.FrameOptions})
	}
	if cfg.ContentTypeNosniff {
		headers = append(headers, headerPair{"X-Content-Type-Options", "nosniff"})
	}
	if cfg.LegacyXSSFilter {
		headers = append(headers, headerPair{"X-XSS-Protection", "1; mode=block"})
	}
	if cfg.ContentSecurityPolicy != "" {
		headers = append(headers, headerPair{"Content-Security-Policy", cfg.ContentSecurityPolicy})
	}
	if cfg.ReferrerPolicy != "" {
		headers = append(headers, headerPair{"Referrer-Policy", cfg.ReferrerPolicy})
	}
	if cfg.PermissionsPolicy != "" {
		headers = append(headers, headerPair{"Permissions-Policy", cfg.PermissionsPolicy})
	}
	if cfg.ResourcePolicy != "" {
		headers = append(headers, headerPair{"Cross-Origin-Resource-Policy", cfg.ResourcePolicy})
	}

	// Unconditional: neither profile has a reason to relax these.
	headers = append(headers,
		headerPair{"X-Permitted-Cross-Domain-Policies", "none"},
		headerPair{"Cross-Origin-Opener-Policy", "same-origin"},
	)
	return headers
}

// SecurityHeadersMiddleware applies the configured protection headers to every
// response passing through the router.
func SecurityHeadersMiddleware(cfg SecurityHeadersConfig) gin.HandlerFunc {
	headers := buildSecurityHeaders(cfg)
	return func(c *gin.Context) {
		for _, h := range headers {
			c.Header(h.name, h.value)
		}
		c.Next()
	}
}
