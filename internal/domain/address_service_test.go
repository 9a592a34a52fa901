package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func poolRepoWith(pools ...AddressPool) stubPoolRepository {
	return stubPoolRepository{
		listFn: func(context.Context) ([]AddressPool, error) {
			return pools, nil
		},
		listByInterfaceFn: func(_ context.Context, interfaceName string) ([]AddressPool, error) {
			var out []AddressPool
			for _, pool := range pools {
				if pool.InterfaceName == interfaceName {
					out = append(out, pool)
				}
			}
			return out, nil
		},
		findFn: func(_ context.Context, id int64) (AddressPool, error) {
			for _, pool := range pools {
				if pool.ID == id {
					return pool, nil
				}
			}
			return AddressPool{}, ErrNotFound
		},
	}
}

func TestAddressServiceCreatePoolDefaultsRangeToHosts(t *testing.T) {
	var stored AddressPool
	service := NewAddressService(stubPoolRepository{
		createFn: func(_ context.Context, record CreatePoolRecord) (AddressPool, error) {
			stored = record.Pool
			record.Pool.ID = 3
			return record.Pool, nil
		},
	}, stubAllocationRepository{}, nil, nil)

	pool, err := service.CreatePool(context.Background(), CreatePoolInput{
		InterfaceName: "wg0",
		Subnet:        "10.8.0.1/24",
		DNS:           []string{"1.1.1.1"},
		Active:        true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pool.ID != 3 {
		t.Fatalf("unexpected pool id: %d", pool.ID)
	}
	if stored.Subnet.String() != "10.8.0.0/24" {
		t.Fatalf("expected masked subnet, got %s", stored.Subnet)
	}
	if stored.Start.String() != "10.8.0.1" || stored.End.String() != "10.8.0.255" {
		t.Fatalf("unexpected default range %s-%s", stored.Start, stored.End)
	}
}

func TestAddressServiceNextAddressReachesLastAddressOfDefaultRange(t *testing.T) {
	var created AddressPool
	repo := stubPoolRepository{
		createFn: func(_ context.Context, record CreatePoolRecord) (AddressPool, error) {
			created = record.Pool
			created.ID = 1
			return created, nil
		},
		listByInterfaceFn: func(context.Context, string) ([]AddressPool, error) {
			return []AddressPool{created}, nil
		},
		findFn: func(context.Context, int64) (AddressPool, error) {
			return created, nil
		},
	}
	ledger := &memoryAllocations{}
	service := NewAddressService(repo, ledger.repository(), nil, nil)

	if _, err := service.CreatePool(context.Background(), CreatePoolInput{
		InterfaceName: "wg0",
		Subnet:        "10.0.0.0/24",
		Active:        true,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.254", PeerID: "*1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	candidate, err := service.NextAddress(context.Background(), "wg0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if candidate.Address.String() != "10.0.0.255/32" {
		t.Fatalf("expected 10.0.0.255/32, got %s", candidate.Address)
	}
}

func TestAddressServiceCreatePoolRejectsInvalidInput(t *testing.T) {
	called := false
	service := NewAddressService(stubPoolRepository{
		createFn: func(_ context.Context, record CreatePoolRecord) (AddressPool, error) {
			called = true
			return record.Pool, nil
		},
	}, stubAllocationRepository{}, nil, nil)

	cases := []CreatePoolInput{
		{InterfaceName: "wg0", Subnet: "not-a-cidr"},
		{InterfaceName: "wg0", Subnet: "10.0.0.0/24", Start: "10.0.0.50", End: "10.0.0.10"},
		{InterfaceName: "wg0", Subnet: "10.0.0.0/24", Start: "10.0.0.10", End: "10.0.3.10"},
		{InterfaceName: "wg0", Subnet: "10.0.0.0/24", Gateway: "192.168.0.1"},
		{InterfaceName: "", Subnet: "10.0.0.0/24"},
		{InterfaceName: "wg0", Subnet: "fd00::/64"},
	}
	for _, input := range cases {
		if _, err := service.CreatePool(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
	if called {
		t.Fatal("expected repository not to be called for invalid pools")
	}
}

func TestAddressServiceAllocateTwiceConflicts(t *testing.T) {
	ledger := &memoryAllocations{}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	service := NewAddressService(poolRepoWith(testPool()), ledger.repository(), nil, clock)

	first, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.10", PeerID: "*1", PublicKey: "key-1"})
	if err != nil {
		t.Fatalf("expected first allocation to succeed, got %v", err)
	}
	if first.Status != AllocationAllocated || !first.AllocatedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected allocation: %+v", first)
	}

	_, err = service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.10/32", PeerID: "*2", PublicKey: "key-2"})
	if !errors.Is(err, ErrAddressInUse) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrAddressInUse, got %v", err)
	}

	if len(ledger.rows) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(ledger.rows))
	}
	if ledger.rows[0] != first {
		t.Fatalf("first allocation was mutated: %+v", ledger.rows[0])
	}
}

func TestAddressServiceAllocateOutOfRange(t *testing.T) {
	ledger := &memoryAllocations{}
	service := NewAddressService(poolRepoWith(testPool()), ledger.repository(), nil, nil)

	_, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.1", PeerID: "*1"})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	_, err = service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.300", PeerID: "*1"})
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if len(ledger.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(ledger.rows))
	}
}

func TestAddressServiceReleaseIsIdempotent(t *testing.T) {
	ledger := &memoryAllocations{}
	service := NewAddressService(poolRepoWith(testPool()), ledger.repository(), nil, nil)

	allocation, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.10", PeerID: "*1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for range 2 {
		if err := service.Release(context.Background(), allocation.ID); err != nil {
			t.Fatalf("expected release to succeed, got %v", err)
		}
	}

	if _, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.10", PeerID: "*2"}); err != nil {
		t.Fatalf("expected released address to be reusable, got %v", err)
	}
}

func TestAddressServiceNextAddressUsesLedgerAndLivePeers(t *testing.T) {
	ledger := &memoryAllocations{}
	service := NewAddressService(poolRepoWith(testPool()), ledger.repository(), stubControlPlane{
		listPeersFn: func(_ context.Context, interfaceName string) ([]RawPeer, error) {
			if interfaceName != "wg0" {
				t.Fatalf("unexpected interface %q", interfaceName)
			}
			return []RawPeer{
				{ID: "*1", AllowedAddress: "10.0.0.7/32"},
				{ID: "*2", AllowedAddress: "10.0.0.3/32,192.168.50.0/24"},
			}, nil
		},
	}, nil)

	candidate, err := service.NextAddress(context.Background(), "wg0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if candidate.PoolID != 1 || candidate.Address.String() != "10.0.0.8/32" {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}

	if _, err := service.Allocate(context.Background(), 1, AllocateInput{Address: "10.0.0.20", PeerID: "*3"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	candidate, err = service.NextAddress(context.Background(), "wg0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if candidate.Address.String() != "10.0.0.21/32" {
		t.Fatalf("expected 10.0.0.21/32, got %s", candidate.Address)
	}
}

func TestAddressServiceNextAddressFallsThroughExhaustedPools(t *testing.T) {
	small := AddressPool{
		ID:            1,
		InterfaceName: "wg0",
		Subnet:        testPool().Subnet,
		Start:         mustAddr("10.0.0.2"),
		End:           mustAddr("10.0.0.3"),
		Active:        true,
	}
	second := AddressPool{
		ID:            2,
		InterfaceName: "wg0",
		Subnet:        testPool().Subnet,
		Start:         mustAddr("10.0.0.100"),
		End:           mustAddr("10.0.0.110"),
		Active:        true,
	}
	ledger := &memoryAllocations{}
	service := NewAddressService(poolRepoWith(second, small), ledger.repository(), stubControlPlane{
		listPeersFn: func(context.Context, string) ([]RawPeer, error) {
			return []RawPeer{{ID: "*1", AllowedAddress: "10.0.0.3/32"}}, nil
		},
	}, nil)

	candidate, err := service.NextAddress(context.Background(), "wg0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if candidate.PoolID != 2 || candidate.Address.String() != "10.0.0.100/32" {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}
}

func TestAddressServiceNextAddressCapacityErrors(t *testing.T) {
	inactive := testPool()
	inactive.Active = false
	service := NewAddressService(poolRepoWith(inactive), stubAllocationRepository{}, nil, nil)

	_, err := service.NextAddress(context.Background(), "wg0")
	if !errors.Is(err, ErrNoPool) || !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrNoPool, got %v", err)
	}

	full := testPool()
	service = NewAddressService(poolRepoWith(full), stubAllocationRepository{}, stubControlPlane{
		listPeersFn: func(context.Context, string) ([]RawPeer, error) {
			return []RawPeer{{ID: "*9", AllowedAddress: "10.0.0.254/32"}}, nil
		},
	}, nil)
	_, err = service.NextAddress(context.Background(), "wg0")
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestAddressServiceNextAddressUpstreamFailure(t *testing.T) {
	service := NewAddressService(poolRepoWith(testPool()), stubAllocationRepository{}, stubControlPlane{
		listPeersFn: func(context.Context, string) ([]RawPeer, error) {
			return nil, errors.New("connection refused")
		},
	}, nil)

	_, err := service.NextAddress(context.Background(), "wg0")
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) || !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestAddressServiceDeletePoolNotFound(t *testing.T) {
	service := NewAddressService(stubPoolRepository{
		deleteFn: func(context.Context, int64) (bool, error) {
			return false, nil
		},
	}, stubAllocationRepository{}, nil, nil)

	if err := service.DeletePool(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddressServiceGetPoolReportsUsage(t *testing.T) {
	service := NewAddressService(poolRepoWith(testPool()), stubAllocationRepository{
		listFn: func(context.Context, int64) ([]Allocation, error) {
			return make([]Allocation, 3), nil
		},
	}, nil, nil)

	summary, err := service.GetPool(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Usage.Allocated != 3 || summary.Usage.Available != 250 {
		t.Fatalf("unexpected usage: %+v", summary.Usage)
	}
}
