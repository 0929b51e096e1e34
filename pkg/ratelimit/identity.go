// Package ratelimit enforces per-client request, cost, and connection
// ceilings for the streaming API.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// clientIDLength is the hex prefix kept from the hashed address.
const clientIDLength = 16

// ClientID derives an anonymized client identifier from the first
// X-Forwarded-For value, falling back to the remote address. The raw IP
// is hashed so limiter state and logs never carry it.
func ClientID(forwardedFor, remoteAddr string) string {
	ip := remoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		ip = host
	}
	if forwardedFor != "" {
		if first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0]); first != "" {
			ip = first
		}
	}
	if ip == "" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:clientIDLength]
}
