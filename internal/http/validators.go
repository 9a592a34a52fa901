package http

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

const maxBulkTargets = 1000

// validateGateway rejects the network and broadcast addresses of the subnet.
func validateGateway(subnet, gateway string) error {
	if gateway == "" {
		return nil
	}
	p, err := netip.ParsePrefix(strings.TrimSpace(subnet))
	if err != nil {
		return fmt.Errorf("invalid subnet %q", subnet)
	}
	ip, err := netip.ParseAddr(strings.TrimSpace(gateway))
	if err != nil {
		return fmt.Errorf("invalid gateway %q", gateway)
	}
	p = p.Masked()
	if !p.Contains(ip) {
		return fmt.Errorf("gateway not in subnet")
	}

	if ip.Is4() && p.Bits() < 31 { // /31 and /32 have no network or broadcast address
		r := netipx.RangeOfPrefix(p)
		if r.From() == ip || r.To() == ip {
			return fmt.Errorf("gateway is the network or broadcast address")
		}
	}
	return nil
}

// bulkTargets drops exact duplicates, keeping the first occurrence.
func bulkTargets(in []PeerTargetRequest) ([]domain.PeerTarget, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("no targets")
	}
	if len(in) > maxBulkTargets {
		return nil, fmt.Errorf("at most %d targets per request", maxBulkTargets)
	}

	seen := make(map[domain.PeerTarget]struct{}, len(in))
	out := make([]domain.PeerTarget, 0, len(in))
	for _, t := range in {
		target := domain.PeerTarget{ID: strings.TrimSpace(t.ID), InterfaceName: strings.TrimSpace(t.Interface)}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out, nil
}
