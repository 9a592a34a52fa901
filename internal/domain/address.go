package domain

import (
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"go4.org/netipx"
)

// ValidateAddress accepts a dotted-quad IPv4 address with an optional /0-32
// prefix, or a comma-separated list in which every element is such an address.
func ValidateAddress(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, part := range strings.Split(text, ",") {
		if _, err := parseAddressEntry(part); err != nil {
			return false
		}
	}
	return true
}

// parseAddressEntry parses "a.b.c.d" or "a.b.c.d/n". A bare address is
// returned with a /32 prefix length.
func parseAddressEntry(text string) (netip.Prefix, error) {
	text = strings.TrimSpace(text)
	addrText, bitsText, hasBits := strings.Cut(text, "/")

	addr, err := netip.ParseAddr(addrText)
	if err != nil || !addr.Is4() {
		return netip.Prefix{}, fmt.Errorf("%q is not a dotted-quad address", text)
	}

	bits := 32
	if hasBits {
		bits, err = parsePrefixLen(bitsText)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%q: %w", text, err)
		}
	}

	return netip.PrefixFrom(addr, bits), nil
}

func parsePrefixLen(text string) (int, error) {
	if text == "" || len(text) > 2 {
		return 0, fmt.Errorf("invalid prefix length")
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid prefix length")
		}
	}
	bits, err := strconv.Atoi(text)
	if err != nil || bits > 32 {
		return 0, fmt.Errorf("prefix length must be 0-32")
	}
	return bits, nil
}

// ParseAllowedAddresses splits a comma-separated allowed-address value into
// prefixes, failing on the first invalid element.
func ParseAllowedAddresses(text string) ([]netip.Prefix, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingAddress
	}
	parts := strings.Split(text, ",")
	out := make([]netip.Prefix, 0, len(parts))
	for _, part := range parts {
		prefix, err := parseAddressEntry(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		out = append(out, prefix)
	}
	return out, nil
}

// NextAddress returns the address following the highest entry of existing.
// Entries are ordered octet by octet; the last octet is incremented and carries
// into the octets to its left. The prefix length of the highest entry is kept.
// Unparseable entries are ignored. No pool bound is applied here.
func NextAddress(existing []string) (netip.Prefix, error) {
	var (
		maxOctets [4]byte
		maxBits   = 32
		found     bool
	)
	for _, entry := range existing {
		for _, part := range strings.Split(entry, ",") {
			prefix, err := parseAddressEntry(part)
			if err != nil {
				continue
			}
			octets := prefix.Addr().As4()
			if !found || slices.Compare(octets[:], maxOctets[:]) > 0 {
				maxOctets = octets
				maxBits = prefix.Bits()
				found = true
			}
		}
	}
	if !found {
		return netip.Prefix{}, fmt.Errorf("%w: no parseable addresses", ErrInvalidInput)
	}

	next, ok := incrementOctets(maxOctets)
	if !ok {
		return netip.Prefix{}, fmt.Errorf("%w: 255.255.255.255 has no successor", ErrPoolExhausted)
	}
	return netip.PrefixFrom(netip.AddrFrom4(next), maxBits), nil
}

func incrementOctets(octets [4]byte) ([4]byte, bool) {
	for i := 3; i >= 0; i-- {
		if octets[i] < 255 {
			octets[i]++
			return octets, true
		}
		octets[i] = 0
	}
	return octets, false
}

// ComputeNextAddress picks the next address for pool given the addresses
// already in use. Entries outside the pool range are ignored. With nothing in
// use the first usable host of the pool is returned. A candidate past the
// pool's End yields ErrPoolExhausted.
func ComputeNextAddress(pool AddressPool, existing []string) (netip.Prefix, error) {
	inRange := make([]string, 0, len(existing))
	for _, entry := range existing {
		for _, part := range strings.Split(entry, ",") {
			prefix, err := parseAddressEntry(part)
			if err != nil || !pool.Contains(prefix.Addr()) {
				continue
			}
			inRange = append(inRange, prefix.String())
		}
	}

	if len(inRange) == 0 {
		first := firstUsableHost(pool)
		if first == pool.Gateway {
			first = first.Next()
		}
		if !first.IsValid() || !pool.Contains(first) {
			return netip.Prefix{}, fmt.Errorf("%w: pool %d has no usable host", ErrPoolExhausted, pool.ID)
		}
		return netip.PrefixFrom(first, 32), nil
	}

	next, err := NextAddress(inRange)
	if err != nil {
		return netip.Prefix{}, err
	}
	// The gateway belongs to the router and is always in use.
	if pool.Gateway.IsValid() && next.Addr() == pool.Gateway {
		if next, err = NextAddress([]string{next.String()}); err != nil {
			return netip.Prefix{}, err
		}
	}
	if !pool.Contains(next.Addr()) {
		return netip.Prefix{}, fmt.Errorf("%w: pool %d (%s-%s) has no address after %s",
			ErrPoolExhausted, pool.ID, pool.Start, pool.End, next.Addr().Prev())
	}
	return next, nil
}

func firstUsableHost(pool AddressPool) netip.Addr {
	first := pool.Start
	if pool.Subnet.IsValid() && pool.Subnet.Bits() < 31 && first == pool.Subnet.Masked().Addr() {
		first = first.Next()
	}
	return first
}

// ValidatePool checks that the range is IPv4, ordered and inside the subnet.
func ValidatePool(pool AddressPool) error {
	if pool.InterfaceName == "" {
		return ErrMissingInterface
	}
	if !pool.Subnet.IsValid() || !pool.Subnet.Addr().Is4() {
		return fmt.Errorf("%w: subnet must be an IPv4 cidr", ErrInvalidInput)
	}
	if !pool.Start.Is4() || !pool.End.Is4() {
		return fmt.Errorf("%w: pool range must be IPv4", ErrInvalidInput)
	}
	if pool.End.Less(pool.Start) {
		return fmt.Errorf("%w: pool start %s is after end %s", ErrInvalidInput, pool.Start, pool.End)
	}
	subnet := netipx.RangeOfPrefix(pool.Subnet.Masked())
	if !subnet.Contains(pool.Start) || !subnet.Contains(pool.End) {
		return fmt.Errorf("%w: pool range %s-%s is outside subnet %s", ErrInvalidInput, pool.Start, pool.End, pool.Subnet)
	}
	if pool.Gateway.IsValid() && !pool.Subnet.Contains(pool.Gateway) {
		return fmt.Errorf("%w: gateway %s is outside subnet %s", ErrInvalidInput, pool.Gateway, pool.Subnet)
	}
	return nil
}

func addrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
