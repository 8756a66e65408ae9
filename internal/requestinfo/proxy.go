package requestinfo

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ParseTrusted turns a list of addresses or CIDR blocks into networks.  A
// bare address becomes a single-host block.
func ParseTrusted(list []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q: not an address", s)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", s, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// PeerIP is the address of the TCP peer, ignoring every proxy header.
func PeerIP(r *http.Request) net.IP {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}

// TrustedClientIP honours X-Forwarded-For only when the peer is one of
// trusted.  The chain is walked from the right and the first hop outside
// trusted is the client, so entries a client prepends are never used.
func TrustedClientIP(r *http.Request, trusted []*net.IPNet) net.IP {
	peer := PeerIP(r)
	if peer == nil || !contains(trusted, peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			// Anything left of a garbled hop is unverifiable.
			break
		}
		if !contains(trusted, ip) {
			return ip
		}
	}
	return peer
}

func contains(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
