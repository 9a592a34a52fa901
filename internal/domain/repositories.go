package domain

import (
	"context"
	"time"
)

type PoolRepository interface {
	List(ctx context.Context) ([]AddressPool, error)
	ListByInterface(ctx context.Context, interfaceName string) ([]AddressPool, error)
	FindByID(ctx context.Context, id int64) (AddressPool, error)
	Create(ctx context.Context, record CreatePoolRecord) (AddressPool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type AllocationRepository interface {
	ListActiveByPool(ctx context.Context, poolID int64) ([]Allocation, error)
	FindActive(ctx context.Context, poolID int64, address string) (Allocation, error)
	Create(ctx context.Context, record CreateAllocationRecord) (Allocation, error)
	Release(ctx context.Context, id AllocationID) error
	ReleaseByPeer(ctx context.Context, interfaceName, peerID string) (int64, error)
}

type TemplateRepository interface {
	List(ctx context.Context) ([]Template, error)
	FindByID(ctx context.Context, id int64) (Template, error)
	Create(ctx context.Context, input CreateTemplateInput) (Template, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PeerMetadataRepository stores enrichment rows. Upsert writes every field
// except the expiry pair, which only SetExpiry touches.
type PeerMetadataRepository interface {
	ListByInterface(ctx context.Context, interfaceName string) ([]PeerMetadata, error)
	Find(ctx context.Context, interfaceName, peerID string) (PeerMetadata, error)
	Upsert(ctx context.Context, meta PeerMetadata) error
	SetExpiry(ctx context.Context, interfaceName, peerID string, at *time.Time, action ExpiryAction) error
	MarkEnrichmentFailed(ctx context.Context, interfaceName, peerID, reason string) error
	Delete(ctx context.Context, interfaceName, peerID string) error
	ListExpired(ctx context.Context, now time.Time) ([]PeerMetadata, error)
}

// ControlPlane is the router API that owns the authoritative peer records.
// Every call addresses a single peer; there is no batch endpoint.
type ControlPlane interface {
	ListPeers(ctx context.Context, interfaceName string) ([]RawPeer, error)
	CreatePeer(ctx context.Context, spec PeerSpec) (RawPeer, error)
	SetPeerEnabled(ctx context.Context, id, interfaceName string, enabled bool) error
	DeletePeer(ctx context.Context, id, interfaceName string) error
	GenerateKeyPair(ctx context.Context) (KeyPair, error)
	RenderConfig(ctx context.Context, req ConfigRequest) (PeerExport, error)
}

// SecretSealer protects private keys before they reach the metadata store.
type SecretSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// PeerCache is the read-through peer list cache the services invalidate
// after every mutation.
type PeerCache interface {
	Get(ctx context.Context, interfaceName string) ([]PeerView, error)
	Refresh(ctx context.Context, interfaceName string) error
	Invalidate(interfaceName string)
	Apply(patch PeerPatch) (PeerPatch, bool)
}

type PeerPatch struct {
	Target   PeerTarget
	Disabled *bool
}
