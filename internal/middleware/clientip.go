package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the visitor address: the first entry of
// X-Forwarded-For when present, otherwise the connection address without
// its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
