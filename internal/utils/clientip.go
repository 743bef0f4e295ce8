package utils

import (
	"net"
	"net/http"
	"strings"
)

// LoopbackIP is the sentinel recorded when no usable client address is
// present. Local and proxied setups surface the IPv6 loopback literal, which
// normalizes to the same sentinel so a developer refreshing a post does not
// fragment the view ledger.
const LoopbackIP = "127.0.0.1"

// ClientIP resolves the requesting client's address from the forwarding
// header, falling back to the connection's remote address.
func ClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// First hop is the originating client when the header is a chain.
		if idx := strings.Index(ip, ","); idx >= 0 {
			ip = ip[:idx]
		}
		ip = strings.TrimSpace(ip)
	}

	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}

	if ip == "" || ip == "::1" {
		return LoopbackIP
	}
	return ip
}
