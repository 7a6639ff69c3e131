package security

import (
	"net"
	"strings"
	"sync"
)

// subnetCache avoids re-parsing the configured CIDR list on every request.
var subnetCache struct {
	sync.Mutex
	raw     string
	subnets []*net.IPNet
}

// IsInLocalSubnet reports whether the client IP falls inside one of the
// configured bypass subnets. Disabled or unparseable configuration never
// bypasses.
func (s *Service) IsInLocalSubnet(clientIP net.IP) bool {
	bypass := s.settings.Security.AllowSubnetBypass
	if !bypass.Enabled || bypass.Subnet == "" || clientIP == nil {
		return false
	}

	for _, subnet := range parseSubnets(bypass.Subnet) {
		if subnet.Contains(clientIP) {
			securityLogger.Debug("request authenticated via subnet bypass",
				"client_ip", clientIP.String(), "subnet", subnet.String())
			return true
		}
	}
	return false
}

// parseSubnets parses a comma-separated CIDR list, caching the result.
// Invalid entries are logged once and skipped.
func parseSubnets(raw string) []*net.IPNet {
	subnetCache.Lock()
	defer subnetCache.Unlock()

	if subnetCache.raw == raw {
		return subnetCache.subnets
	}

	var subnets []*net.IPNet
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		_, subnet, err := net.ParseCIDR(entry)
		if err != nil {
			securityLogger.Warn("ignoring invalid bypass subnet", "subnet", entry, "error", err)
			continue
		}
		subnets = append(subnets, subnet)
	}

	subnetCache.raw = raw
	subnetCache.subnets = subnets
	return subnets
}
