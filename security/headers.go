package security

import (
	"net/http"
	"net/url"
)

// SetSecurityHeaders sets the response headers shared by the login and callback endpoints.
// HSTS is only sent when baseURL is https.
func SetSecurityHeaders(w http.ResponseWriter, baseURL string) {
	h := w.Header()

	h.Set("X-Frame-Options", "DENY")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

	// The callback URL carries the authorization code; never leak it to LinkedIn or elsewhere.
	h.Set("Referrer-Policy", "no-referrer")

	if parsed, err := url.Parse(baseURL); err == nil && parsed.Scheme == "https" {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	// Callback responses contain tokens
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	h.Set("Pragma", "no-cache")
}
