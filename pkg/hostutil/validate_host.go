// Package hostutil validates the host part of configured addresses.
package hostutil

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// ValidateHost accepts an IPv4 or IPv6 literal (brackets allowed) or an
// RFC 1123 hostname.
func ValidateHost(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty host")
	}
	if h, ok := strings.CutPrefix(raw, "["); ok {
		h, ok = strings.CutSuffix(h, "]")
		if !ok {
			return fmt.Errorf("bad IPv6: %q", raw)
		}
		if a, err := netip.ParseAddr(h); err != nil || !a.Is6() {
			return fmt.Errorf("bad IPv6: %q", raw)
		}
		return nil
	}
	if strings.Contains(raw, ":") {
		if a, err := netip.ParseAddr(raw); err != nil || !a.Is6() {
			return fmt.Errorf("bad IPv6: %q", raw)
		}
		return nil
	}
	if looksNumeric(raw) {
		if a, err := netip.ParseAddr(raw); err != nil || !a.Is4() {
			return fmt.Errorf("bad IP: %q", raw)
		}
		return nil
	}
	if !validHostname(raw) {
		return fmt.Errorf("bad hostname: %q", raw)
	}
	return nil
}

// ValidateHostPort checks a "host:port" address such as a Redis endpoint.
func ValidateHostPort(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("bad address %q: %w", addr, err)
	}
	if n, err := strconv.ParseUint(port, 10, 16); err != nil || n == 0 {
		return fmt.Errorf("bad port in %q", addr)
	}
	return ValidateHost(host)
}

// looksNumeric reports dotted digits, which must then parse as IPv4.
func looksNumeric(raw string) bool {
	for _, r := range raw {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func validHostname(raw string) bool {
	raw = strings.TrimSuffix(raw, ".")
	if raw == "" || len(raw) > 253 {
		return false
	}
	for _, label := range strings.Split(raw, ".") {
		if len(label) < 1 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			default:
				return false
			}
		}
	}
	return true
}
