package security

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the client IP for audit logging.
// X-Forwarded-For (leftmost entry) and X-Real-IP are only honored when trustProxy is set;
// enable it only behind a reverse proxy that overwrites those headers.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
