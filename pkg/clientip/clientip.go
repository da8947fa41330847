// Package clientip extracts the caller's IP for rate limiting.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr. Proxy headers
// are deliberately ignored: the backend is reached directly, and
// X-Forwarded-For would let a caller spoof its way past the rate limit.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
