package db

import (
	"context"
	"net/netip"

	sqlc "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type PoolRepository struct {
	queries *sqlc.Queries
}

var _ domain.PoolRepository = (*PoolRepository)(nil)

func NewPoolRepository(queries *sqlc.Queries) *PoolRepository {
	return &PoolRepository{queries: queries}
}

func (r *PoolRepository) List(ctx context.Context) ([]domain.AddressPool, error) {
	pools, err := r.queries.ListPools(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainPools(pools), nil
}

func (r *PoolRepository) ListByInterface(ctx context.Context, interfaceName string) ([]domain.AddressPool, error) {
	pools, err := r.queries.ListPoolsByInterface(ctx, interfaceName)
	if err != nil {
		return nil, err
	}
	return toDomainPools(pools), nil
}

func (r *PoolRepository) FindByID(ctx context.Context, id int64) (domain.AddressPool, error) {
	pool, err := r.queries.GetPoolByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return domain.AddressPool{}, domain.ErrNotFound
		}
		return domain.AddressPool{}, err
	}
	return toDomainPool(pool), nil
}

func (r *PoolRepository) Create(ctx context.Context, record domain.CreatePoolRecord) (domain.AddressPool, error) {
	pool := record.Pool
	params := sqlc.CreatePoolParams{
		InterfaceName: pool.InterfaceName,
		Subnet:        pool.Subnet,
		RangeStart:    pool.Start,
		RangeEnd:      pool.End,
		Dns:           make([]string, 0, len(pool.DNS)),
		Active:        pool.Active,
	}
	if pool.Gateway.IsValid() {
		gateway := pool.Gateway
		params.Gateway = &gateway
	}
	for _, dns := range pool.DNS {
		params.Dns = append(params.Dns, dns.String())
	}

	created, err := r.queries.CreatePool(ctx, params)
	if err != nil {
		return domain.AddressPool{}, err
	}
	return toDomainPool(created), nil
}

func (r *PoolRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.queries.DeletePoolByID(ctx, id)
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func toDomainPools(pools []sqlc.AddressPool) []domain.AddressPool {
	out := make([]domain.AddressPool, 0, len(pools))
	for _, pool := range pools {
		out = append(out, toDomainPool(pool))
	}
	return out
}

func toDomainPool(pool sqlc.AddressPool) domain.AddressPool {
	out := domain.AddressPool{
		ID:            pool.ID,
		InterfaceName: pool.InterfaceName,
		Subnet:        pool.Subnet,
		Start:         pool.RangeStart,
		End:           pool.RangeEnd,
		Active:        pool.Active,
		CreatedAt:     pool.CreatedAt.Time,
		UpdatedAt:     pool.UpdatedAt.Time,
	}
	if pool.Gateway != nil {
		out.Gateway = *pool.Gateway
	}
	for _, text := range pool.Dns {
		if addr, err := netip.ParseAddr(text); err == nil {
			out.DNS = append(out.DNS, addr)
		}
	}
	return out
}
