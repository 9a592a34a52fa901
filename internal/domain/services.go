package domain

import (
	"context"
	"net/netip"
	"time"
)

type AddressService interface {
	ListPools(ctx context.Context, interfaceName string) ([]PoolSummary, error)
	CreatePool(ctx context.Context, input CreatePoolInput) (AddressPool, error)
	GetPool(ctx context.Context, id int64) (PoolSummary, error)
	DeletePool(ctx context.Context, id int64) error
	ListAllocations(ctx context.Context, poolID int64) ([]Allocation, error)
	Allocate(ctx context.Context, poolID int64, input AllocateInput) (Allocation, error)
	Release(ctx context.Context, id AllocationID) error
	NextAddress(ctx context.Context, interfaceName string) (AddressCandidate, error)
}

// AddressCandidate is the next free address of a pool. It is not reserved.
type AddressCandidate struct {
	PoolID  int64
	Address netip.Prefix
}

type PeerService interface {
	ListNormalizedPeers(ctx context.Context, interfaceName string) ([]PeerView, error)
	ResolveAndCreate(ctx context.Context, input CreatePeerInput) (CreatePeerResult, error)
	SetPeerEnabled(ctx context.Context, target PeerTarget, enabled bool) error
	ApplyBulk(ctx context.Context, op BulkOperation, targets []PeerTarget) (BulkOperationResult, error)
	SetPeerExpiry(ctx context.Context, target PeerTarget, at *time.Time, action ExpiryAction) error
	ExportPeer(ctx context.Context, target PeerTarget) (PeerExport, error)
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id int64) (Template, error)
	CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
}
