package db

import (
	"context"
	"fmt"
	"net/netip"

	sqlc "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

const uniqueActiveAddress = "unique_active_address"

type AllocationRepository struct {
	queries *sqlc.Queries
}

var _ domain.AllocationRepository = (*AllocationRepository)(nil)

func NewAllocationRepository(queries *sqlc.Queries) *AllocationRepository {
	return &AllocationRepository{queries: queries}
}

func (r *AllocationRepository) ListActiveByPool(ctx context.Context, poolID int64) ([]domain.Allocation, error) {
	rows, err := r.queries.ListActiveAllocationsByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Allocation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAllocation(row))
	}
	return out, nil
}

func (r *AllocationRepository) FindActive(ctx context.Context, poolID int64, address string) (domain.Allocation, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return domain.Allocation{}, fmt.Errorf("%w: invalid address", domain.ErrInvalidInput)
	}

	row, err := r.queries.GetActiveAllocation(ctx, sqlc.GetActiveAllocationParams{PoolID: poolID, Address: addr})
	if err != nil {
		if isNoRows(err) {
			return domain.Allocation{}, domain.ErrNotFound
		}
		return domain.Allocation{}, err
	}
	return toDomainAllocation(row), nil
}

// Create relies on the partial unique index to reject a second live
// allocation of the same address, even when two requests race past the
// service-level check.
func (r *AllocationRepository) Create(ctx context.Context, record domain.CreateAllocationRecord) (domain.Allocation, error) {
	id, err := parseUUID(string(record.ID))
	if err != nil {
		return domain.Allocation{}, fmt.Errorf("%w: invalid allocation id", domain.ErrInvalidInput)
	}
	addr, err := netip.ParseAddr(record.Address)
	if err != nil {
		return domain.Allocation{}, fmt.Errorf("%w: invalid address", domain.ErrInvalidInput)
	}

	row, err := r.queries.CreateAllocation(ctx, sqlc.CreateAllocationParams{
		ID:            id,
		PoolID:        record.PoolID,
		Address:       addr,
		PeerID:        record.PeerID,
		InterfaceName: record.InterfaceName,
		PublicKey:     record.PublicKey,
		AllocatedAt:   timestamptz(record.AllocatedAt),
	})
	if err != nil {
		if isUniqueViolation(err, uniqueActiveAddress) {
			return domain.Allocation{}, fmt.Errorf("%w: %s", domain.ErrAddressInUse, addr)
		}
		return domain.Allocation{}, err
	}
	return toDomainAllocation(row), nil
}

// Release is idempotent for known allocations.
func (r *AllocationRepository) Release(ctx context.Context, id domain.AllocationID) error {
	parsed, err := parseUUID(string(id))
	if err != nil {
		return fmt.Errorf("%w: invalid allocation id", domain.ErrInvalidInput)
	}

	released, err := r.queries.ReleaseAllocation(ctx, parsed)
	if err != nil {
		return err
	}
	if released > 0 {
		return nil
	}

	if _, err := r.queries.GetAllocationByID(ctx, parsed); err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *AllocationRepository) ReleaseByPeer(ctx context.Context, interfaceName, peerID string) (int64, error) {
	return r.queries.ReleaseAllocationsByPeer(ctx, sqlc.ReleaseAllocationsByPeerParams{
		InterfaceName: interfaceName,
		PeerID:        peerID,
	})
}

func toDomainAllocation(row sqlc.AddressAllocation) domain.Allocation {
	return domain.Allocation{
		ID:      domain.AllocationID(formatUUID(row.ID)),
		PoolID:  row.PoolID,
		Address: row.Address,
		Peer: domain.PeerRef{
			ID:            row.PeerID,
			InterfaceName: row.InterfaceName,
			PublicKey:     row.PublicKey,
		},
		Status:      domain.AllocationStatus(row.Status),
		AllocatedAt: row.AllocatedAt.Time,
		ReleasedAt:  timePtr(row.ReleasedAt),
	}
}
