//go:build integration

package db

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	sqlc "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

const postgresPort = "5432/tcp"

func startDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	require.NoError(t, os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true"))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16",
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_DB":       "fleet",
				"POSTGRES_USER":     "fleet",
				"POSTGRES_PASSWORD": "fleet",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://fleet:fleet@%s:%s/fleet?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "schema must apply twice")
	return pool
}

func TestRepositories(t *testing.T) {
	pool := startDatabase(t)
	queries := sqlc.New(pool)
	ctx := context.Background()

	pools := NewPoolRepository(queries)
	allocations := NewAllocationRepository(queries)
	templates := NewTemplateRepository(queries)
	metadata := NewMetadataRepository(queries)

	addressPool, err := pools.Create(ctx, domain.CreatePoolRecord{Pool: domain.AddressPool{
		InterfaceName: "wg0",
		Subnet:        netip.MustParsePrefix("10.8.0.0/24"),
		Start:         netip.MustParseAddr("10.8.0.2"),
		End:           netip.MustParseAddr("10.8.0.254"),
		Gateway:       netip.MustParseAddr("10.8.0.1"),
		DNS:           []netip.Addr{netip.MustParseAddr("10.8.0.1")},
		Active:        true,
	}})
	require.NoError(t, err)

	t.Run("pools", func(t *testing.T) {
		found, err := pools.FindByID(ctx, addressPool.ID)
		require.NoError(t, err)
		assert.Equal(t, netip.MustParsePrefix("10.8.0.0/24"), found.Subnet)
		assert.Equal(t, netip.MustParseAddr("10.8.0.1"), found.Gateway)
		assert.Len(t, found.DNS, 1)

		byInterface, err := pools.ListByInterface(ctx, "wg0")
		require.NoError(t, err)
		assert.Len(t, byInterface, 1)

		_, err = pools.FindByID(ctx, addressPool.ID+100)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("allocations", func(t *testing.T) {
		record := domain.CreateAllocationRecord{
			ID:            "0b6c8c1e-9d52-4f3c-9f0e-2d8f1c2b7a10",
			PoolID:        addressPool.ID,
			Address:       "10.8.0.2",
			PeerID:        "*1",
			InterfaceName: "wg0",
			PublicKey:     "pk1",
			AllocatedAt:   time.Now(),
		}
		allocation, err := allocations.Create(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, domain.AllocationAllocated, allocation.Status)

		record.ID = "5f1a1f0a-7f55-4c55-8f73-6c0a3f0e9b21"
		record.PeerID = "*2"
		_, err = allocations.Create(ctx, record)
		assert.ErrorIs(t, err, domain.ErrAddressInUse)

		active, err := allocations.FindActive(ctx, addressPool.ID, "10.8.0.2")
		require.NoError(t, err)
		assert.Equal(t, "*1", active.Peer.ID)

		require.NoError(t, allocations.Release(ctx, allocation.ID))
		require.NoError(t, allocations.Release(ctx, allocation.ID))
		assert.ErrorIs(t, allocations.Release(ctx, "7d3d8a52-2c0b-4bb4-a9a4-3a3c0f1f6e55"), domain.ErrNotFound)

		_, err = allocations.FindActive(ctx, addressPool.ID, "10.8.0.2")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		record.ID = "9a0e7c43-3a65-4b8f-8d7c-1f5d2a9b0c34"
		_, err = allocations.Create(ctx, record)
		require.NoError(t, err, "a released address can be allocated again")

		released, err := allocations.ReleaseByPeer(ctx, "wg0", "*2")
		require.NoError(t, err)
		assert.Equal(t, int64(1), released)
	})

	t.Run("templates", func(t *testing.T) {
		template, err := templates.Create(ctx, domain.CreateTemplateInput{
			Name:           "laptops",
			AllowedAddress: domain.AutoAddress,
			DNS:            []string{"10.8.0.1"},
			Tags:           []string{"staff"},
			NotesPattern:   "{name} on {interface}",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"staff"}, template.Tags)

		_, err = templates.Create(ctx, domain.CreateTemplateInput{Name: "laptops", AllowedAddress: domain.AutoAddress})
		assert.ErrorIs(t, err, domain.ErrConflict)

		deleted, err := templates.Delete(ctx, template.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		_, err = templates.FindByID(ctx, template.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("metadata keeps expiry across upserts", func(t *testing.T) {
		expiresAt := time.Now().Add(-time.Minute).UTC().Truncate(time.Microsecond)
		require.NoError(t, metadata.SetExpiry(ctx, "wg0", "*1", &expiresAt, domain.ExpiryDelete))
		require.NoError(t, metadata.Upsert(ctx, domain.PeerMetadata{
			PeerID:        "*1",
			InterfaceName: "wg0",
			PublicKey:     "pk1",
			Group:         "staff",
			Tags:          []string{"laptop"},
		}))

		meta, err := metadata.Find(ctx, "wg0", "*1")
		require.NoError(t, err)
		assert.Equal(t, "staff", meta.Group)
		require.NotNil(t, meta.ExpiresAt)
		assert.True(t, expiresAt.Equal(*meta.ExpiresAt))
		assert.Equal(t, domain.ExpiryDelete, meta.ExpiryAction)

		expired, err := metadata.ListExpired(ctx, time.Now())
		require.NoError(t, err)
		require.Len(t, expired, 1)

		require.NoError(t, metadata.MarkEnrichmentFailed(ctx, "wg0", "*1", "seal failed"))
		meta, err = metadata.Find(ctx, "wg0", "*1")
		require.NoError(t, err)
		assert.True(t, meta.EnrichmentFailed)
		assert.Equal(t, "staff", meta.Group)

		require.NoError(t, metadata.SetExpiry(ctx, "wg0", "*1", nil, ""))
		expired, err = metadata.ListExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.Empty(t, expired)

		require.NoError(t, metadata.Delete(ctx, "wg0", "*1"))
		_, err = metadata.Find(ctx, "wg0", "*1")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("deleting a pool removes it", func(t *testing.T) {
		deleted, err := pools.Delete(ctx, addressPool.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = pools.Delete(ctx, addressPool.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
