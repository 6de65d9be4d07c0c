package utils

import (
	"net"
	"net/url"
	"strings"
)

// IsAllowedOrigin reports whether an Origin header value should be trusted.
// The viewer is served on a LAN, so localhost, private and link-local IPs,
// .local mDNS names, and single-label LAN hostnames are allowed. Public
// internet origins are not.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" {
		return true
	}
	if strings.HasSuffix(hostname, ".local") {
		return true
	}
	// Single-label hostnames resolve on the LAN only.
	if !strings.Contains(hostname, ".") {
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return IsPrivateAddr(ip)
	}
	return false
}

// IsPrivateAddr reports whether ip is loopback, RFC1918/ULA private, or
// link-local. Also used by the poster relay to refuse fetching from
// internal addresses.
func IsPrivateAddr(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}
