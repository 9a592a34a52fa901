package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go4.org/netipx"
)

type addressService struct {
	pools        PoolRepository
	allocations  AllocationRepository
	controlPlane ControlPlane
	clock        clockwork.Clock
}

// NewAddressService builds the pool and allocation service. controlPlane may
// be nil, in which case only the allocation ledger seeds next-address
// computation.
func NewAddressService(pools PoolRepository, allocations AllocationRepository, controlPlane ControlPlane, clock clockwork.Clock) AddressService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &addressService{
		pools:        pools,
		allocations:  allocations,
		controlPlane: controlPlane,
		clock:        clock,
	}
}

func (s *addressService) ListPools(ctx context.Context, interfaceName string) ([]PoolSummary, error) {
	var (
		pools []AddressPool
		err   error
	)
	if interfaceName == "" {
		pools, err = s.pools.List(ctx)
	} else {
		pools, err = s.pools.ListByInterface(ctx, interfaceName)
	}
	if err != nil {
		return nil, err
	}

	out := make([]PoolSummary, 0, len(pools))
	for _, pool := range pools {
		summary, err := s.summarize(ctx, pool)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *addressService) GetPool(ctx context.Context, id int64) (PoolSummary, error) {
	pool, err := s.pools.FindByID(ctx, id)
	if err != nil {
		return PoolSummary{}, err
	}
	return s.summarize(ctx, pool)
}

func (s *addressService) summarize(ctx context.Context, pool AddressPool) (PoolSummary, error) {
	allocations, err := s.allocations.ListActiveByPool(ctx, pool.ID)
	if err != nil {
		return PoolSummary{}, err
	}
	return PoolSummary{Pool: pool, Usage: pool.Usage(len(allocations))}, nil
}

func (s *addressService) CreatePool(ctx context.Context, input CreatePoolInput) (AddressPool, error) {
	pool, err := poolFromInput(input)
	if err != nil {
		return AddressPool{}, err
	}
	if err := ValidatePool(pool); err != nil {
		return AddressPool{}, err
	}
	return s.pools.Create(ctx, CreatePoolRecord{Pool: pool})
}

func poolFromInput(input CreatePoolInput) (AddressPool, error) {
	subnet, err := netip.ParsePrefix(strings.TrimSpace(input.Subnet))
	if err != nil {
		return AddressPool{}, fmt.Errorf("%w: invalid subnet cidr %q", ErrInvalidInput, input.Subnet)
	}
	subnet = subnet.Masked()

	// Without an explicit range the pool runs from the first host to the last
	// address of the subnet. Only the network address is left out.
	full := netipx.RangeOfPrefix(subnet)
	start, end := full.From(), full.To()
	if subnet.Addr().Is4() && subnet.Bits() < 31 {
		start = start.Next()
	}

	if input.Start != "" {
		if start, err = netip.ParseAddr(strings.TrimSpace(input.Start)); err != nil {
			return AddressPool{}, fmt.Errorf("%w: invalid range start %q", ErrInvalidInput, input.Start)
		}
	}
	if input.End != "" {
		if end, err = netip.ParseAddr(strings.TrimSpace(input.End)); err != nil {
			return AddressPool{}, fmt.Errorf("%w: invalid range end %q", ErrInvalidInput, input.End)
		}
	}

	pool := AddressPool{
		InterfaceName: strings.TrimSpace(input.InterfaceName),
		Subnet:        subnet,
		Start:         start,
		End:           end,
		Active:        input.Active,
	}
	if input.Gateway != "" {
		if pool.Gateway, err = netip.ParseAddr(strings.TrimSpace(input.Gateway)); err != nil {
			return AddressPool{}, fmt.Errorf("%w: invalid gateway %q", ErrInvalidInput, input.Gateway)
		}
	}
	for _, text := range input.DNS {
		dns, err := netip.ParseAddr(strings.TrimSpace(text))
		if err != nil {
			return AddressPool{}, fmt.Errorf("%w: invalid dns server %q", ErrInvalidInput, text)
		}
		pool.DNS = append(pool.DNS, dns)
	}
	return pool, nil
}

func (s *addressService) DeletePool(ctx context.Context, id int64) error {
	deleted, err := s.pools.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *addressService) ListAllocations(ctx context.Context, poolID int64) ([]Allocation, error) {
	if _, err := s.pools.FindByID(ctx, poolID); err != nil {
		return nil, err
	}
	return s.allocations.ListActiveByPool(ctx, poolID)
}

func (s *addressService) Allocate(ctx context.Context, poolID int64, input AllocateInput) (Allocation, error) {
	pool, err := s.pools.FindByID(ctx, poolID)
	if err != nil {
		return Allocation{}, err
	}
	if input.PeerID == "" {
		return Allocation{}, fmt.Errorf("%w: peer id is required", ErrInvalidInput)
	}

	prefix, err := parseAddressEntry(input.Address)
	if err != nil {
		return Allocation{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	addr := prefix.Addr()
	if !pool.Contains(addr) {
		return Allocation{}, fmt.Errorf("%w: %s is not within %s-%s", ErrOutOfRange, addr, pool.Start, pool.End)
	}

	existing, err := s.allocations.FindActive(ctx, poolID, addr.String())
	switch {
	case err == nil:
		return Allocation{}, fmt.Errorf("%w: %s is held by peer %s", ErrAddressInUse, addr, existing.Peer.ID)
	case !errors.Is(err, ErrNotFound):
		return Allocation{}, err
	}

	return s.allocations.Create(ctx, CreateAllocationRecord{
		ID:            AllocationID(uuid.NewString()),
		PoolID:        poolID,
		Address:       addr.String(),
		PeerID:        input.PeerID,
		InterfaceName: pool.InterfaceName,
		PublicKey:     input.PublicKey,
		AllocatedAt:   s.clock.Now(),
	})
}

func (s *addressService) Release(ctx context.Context, id AllocationID) error {
	return s.allocations.Release(ctx, id)
}

func (s *addressService) NextAddress(ctx context.Context, interfaceName string) (AddressCandidate, error) {
	if interfaceName == "" {
		return AddressCandidate{}, ErrMissingInterface
	}

	pools, err := s.pools.ListByInterface(ctx, interfaceName)
	if err != nil {
		return AddressCandidate{}, err
	}
	pools = slices.DeleteFunc(pools, func(p AddressPool) bool { return !p.Active })
	if len(pools) == 0 {
		return AddressCandidate{}, fmt.Errorf("%w %s", ErrNoPool, interfaceName)
	}
	slices.SortFunc(pools, func(a, b AddressPool) int { return cmp.Compare(a.ID, b.ID) })

	var live []string
	if s.controlPlane != nil {
		peers, err := s.controlPlane.ListPeers(ctx, interfaceName)
		if err != nil {
			return AddressCandidate{}, upstream("list peers", "", err)
		}
		for _, peer := range peers {
			live = append(live, peer.AllowedAddress)
		}
	}

	var lastErr error
	for _, pool := range pools {
		allocations, err := s.allocations.ListActiveByPool(ctx, pool.ID)
		if err != nil {
			return AddressCandidate{}, err
		}
		existing := slices.Clone(live)
		for _, allocation := range allocations {
			existing = append(existing, allocation.Address.String())
		}

		next, err := ComputeNextAddress(pool, existing)
		if errors.Is(err, ErrPoolExhausted) {
			lastErr = err
			continue
		}
		if err != nil {
			return AddressCandidate{}, err
		}
		return AddressCandidate{PoolID: pool.ID, Address: next}, nil
	}
	return AddressCandidate{}, fmt.Errorf("interface %s: %w", interfaceName, lastErr)
}
