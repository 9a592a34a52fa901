package domain

import (
	"context"
	"log/slog"
	"time"
)

type captureHandler struct {
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	clone := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clone.AddAttrs(attr)
		return true
	})
	h.records = append(h.records, clone)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(string) slog.Handler {
	return h
}

type stubPoolRepository struct {
	listFn            func(context.Context) ([]AddressPool, error)
	listByInterfaceFn func(context.Context, string) ([]AddressPool, error)
	findFn            func(context.Context, int64) (AddressPool, error)
	createFn          func(context.Context, CreatePoolRecord) (AddressPool, error)
	deleteFn          func(context.Context, int64) (bool, error)
}

func (s stubPoolRepository) List(ctx context.Context) ([]AddressPool, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubPoolRepository) ListByInterface(ctx context.Context, interfaceName string) ([]AddressPool, error) {
	if s.listByInterfaceFn == nil {
		return nil, nil
	}
	return s.listByInterfaceFn(ctx, interfaceName)
}

func (s stubPoolRepository) FindByID(ctx context.Context, id int64) (AddressPool, error) {
	if s.findFn == nil {
		return AddressPool{}, ErrNotFound
	}
	return s.findFn(ctx, id)
}

func (s stubPoolRepository) Create(ctx context.Context, record CreatePoolRecord) (AddressPool, error) {
	if s.createFn == nil {
		return record.Pool, nil
	}
	return s.createFn(ctx, record)
}

func (s stubPoolRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, id)
}

type stubAllocationRepository struct {
	listFn          func(context.Context, int64) ([]Allocation, error)
	findActiveFn    func(context.Context, int64, string) (Allocation, error)
	createFn        func(context.Context, CreateAllocationRecord) (Allocation, error)
	releaseFn       func(context.Context, AllocationID) error
	releaseByPeerFn func(context.Context, string, string) (int64, error)
}

func (s stubAllocationRepository) ListActiveByPool(ctx context.Context, poolID int64) ([]Allocation, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, poolID)
}

func (s stubAllocationRepository) FindActive(ctx context.Context, poolID int64, address string) (Allocation, error) {
	if s.findActiveFn == nil {
		return Allocation{}, ErrNotFound
	}
	return s.findActiveFn(ctx, poolID, address)
}

func (s stubAllocationRepository) Create(ctx context.Context, record CreateAllocationRecord) (Allocation, error) {
	if s.createFn == nil {
		return Allocation{ID: record.ID, PoolID: record.PoolID}, nil
	}
	return s.createFn(ctx, record)
}

func (s stubAllocationRepository) Release(ctx context.Context, id AllocationID) error {
	if s.releaseFn == nil {
		return nil
	}
	return s.releaseFn(ctx, id)
}

func (s stubAllocationRepository) ReleaseByPeer(ctx context.Context, interfaceName, peerID string) (int64, error) {
	if s.releaseByPeerFn == nil {
		return 0, nil
	}
	return s.releaseByPeerFn(ctx, interfaceName, peerID)
}

// memoryAllocations is a ledger keyed by pool and address that mirrors the
// database's one-active-allocation rule.
type memoryAllocations struct {
	rows []Allocation
}

func (m *memoryAllocations) repository() stubAllocationRepository {
	return stubAllocationRepository{
		listFn: func(_ context.Context, poolID int64) ([]Allocation, error) {
			var out []Allocation
			for _, row := range m.rows {
				if row.PoolID == poolID && row.Status == AllocationAllocated {
					out = append(out, row)
				}
			}
			return out, nil
		},
		findActiveFn: func(_ context.Context, poolID int64, address string) (Allocation, error) {
			for _, row := range m.rows {
				if row.PoolID == poolID && row.Address.String() == address && row.Status == AllocationAllocated {
					return row, nil
				}
			}
			return Allocation{}, ErrNotFound
		},
		createFn: func(_ context.Context, record CreateAllocationRecord) (Allocation, error) {
			row := Allocation{
				ID:          record.ID,
				PoolID:      record.PoolID,
				Address:     mustAddr(record.Address),
				Peer:        PeerRef{ID: record.PeerID, InterfaceName: record.InterfaceName, PublicKey: record.PublicKey},
				Status:      AllocationAllocated,
				AllocatedAt: record.AllocatedAt,
			}
			m.rows = append(m.rows, row)
			return row, nil
		},
		releaseFn: func(_ context.Context, id AllocationID) error {
			for i := range m.rows {
				if m.rows[i].ID == id {
					m.rows[i].Status = AllocationReleased
					return nil
				}
			}
			return ErrNotFound
		},
	}
}

type stubTemplateRepository struct {
	listFn   func(context.Context) ([]Template, error)
	findFn   func(context.Context, int64) (Template, error)
	createFn func(context.Context, CreateTemplateInput) (Template, error)
	deleteFn func(context.Context, int64) (bool, error)
}

func (s stubTemplateRepository) List(ctx context.Context) ([]Template, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubTemplateRepository) FindByID(ctx context.Context, id int64) (Template, error) {
	if s.findFn == nil {
		return Template{}, ErrNotFound
	}
	return s.findFn(ctx, id)
}

func (s stubTemplateRepository) Create(ctx context.Context, input CreateTemplateInput) (Template, error) {
	if s.createFn == nil {
		return Template{Name: input.Name}, nil
	}
	return s.createFn(ctx, input)
}

func (s stubTemplateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, id)
}

type stubMetadataRepository struct {
	listFn        func(context.Context, string) ([]PeerMetadata, error)
	findFn        func(context.Context, string, string) (PeerMetadata, error)
	upsertFn      func(context.Context, PeerMetadata) error
	setExpiryFn   func(context.Context, string, string, *time.Time, ExpiryAction) error
	markFailedFn  func(context.Context, string, string, string) error
	deleteFn      func(context.Context, string, string) error
	listExpiredFn func(context.Context, time.Time) ([]PeerMetadata, error)
}

func (s stubMetadataRepository) ListByInterface(ctx context.Context, interfaceName string) ([]PeerMetadata, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, interfaceName)
}

func (s stubMetadataRepository) Find(ctx context.Context, interfaceName, peerID string) (PeerMetadata, error) {
	if s.findFn == nil {
		return PeerMetadata{}, ErrNotFound
	}
	return s.findFn(ctx, interfaceName, peerID)
}

func (s stubMetadataRepository) Upsert(ctx context.Context, meta PeerMetadata) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, meta)
}

func (s stubMetadataRepository) SetExpiry(ctx context.Context, interfaceName, peerID string, at *time.Time, action ExpiryAction) error {
	if s.setExpiryFn == nil {
		return nil
	}
	return s.setExpiryFn(ctx, interfaceName, peerID, at, action)
}

func (s stubMetadataRepository) MarkEnrichmentFailed(ctx context.Context, interfaceName, peerID, reason string) error {
	if s.markFailedFn == nil {
		return nil
	}
	return s.markFailedFn(ctx, interfaceName, peerID, reason)
}

func (s stubMetadataRepository) Delete(ctx context.Context, interfaceName, peerID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, interfaceName, peerID)
}

func (s stubMetadataRepository) ListExpired(ctx context.Context, now time.Time) ([]PeerMetadata, error) {
	if s.listExpiredFn == nil {
		return nil, nil
	}
	return s.listExpiredFn(ctx, now)
}

type stubControlPlane struct {
	listPeersFn    func(context.Context, string) ([]RawPeer, error)
	createPeerFn   func(context.Context, PeerSpec) (RawPeer, error)
	setEnabledFn   func(context.Context, string, string, bool) error
	deletePeerFn   func(context.Context, string, string) error
	generateKeysFn func(context.Context) (KeyPair, error)
	renderFn       func(context.Context, ConfigRequest) (PeerExport, error)
}

func (s stubControlPlane) ListPeers(ctx context.Context, interfaceName string) ([]RawPeer, error) {
	if s.listPeersFn == nil {
		return nil, nil
	}
	return s.listPeersFn(ctx, interfaceName)
}

func (s stubControlPlane) CreatePeer(ctx context.Context, spec PeerSpec) (RawPeer, error) {
	if s.createPeerFn == nil {
		return RawPeer{ID: "*1", PublicKey: spec.PublicKey, AllowedAddress: spec.AllowedAddress}, nil
	}
	return s.createPeerFn(ctx, spec)
}

func (s stubControlPlane) SetPeerEnabled(ctx context.Context, id, interfaceName string, enabled bool) error {
	if s.setEnabledFn == nil {
		return nil
	}
	return s.setEnabledFn(ctx, id, interfaceName, enabled)
}

func (s stubControlPlane) DeletePeer(ctx context.Context, id, interfaceName string) error {
	if s.deletePeerFn == nil {
		return nil
	}
	return s.deletePeerFn(ctx, id, interfaceName)
}

func (s stubControlPlane) GenerateKeyPair(ctx context.Context) (KeyPair, error) {
	if s.generateKeysFn == nil {
		return KeyPair{PublicKey: "generated-public", PrivateKey: "generated-private"}, nil
	}
	return s.generateKeysFn(ctx)
}

func (s stubControlPlane) RenderConfig(ctx context.Context, req ConfigRequest) (PeerExport, error) {
	if s.renderFn == nil {
		return PeerExport{PeerID: req.PeerID, InterfaceName: req.InterfaceName, Config: "[Interface]"}, nil
	}
	return s.renderFn(ctx, req)
}

type stubSealer struct{}

func (stubSealer) Seal(plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

func (stubSealer) Open(sealed string) (string, error) {
	return sealed[len("sealed:"):], nil
}

type stubPeerCache struct {
	getFn        func(context.Context, string) ([]PeerView, error)
	refreshFn    func(context.Context, string) error
	invalidateFn func(string)
	applyFn      func(PeerPatch) (PeerPatch, bool)
}

func (s stubPeerCache) Get(ctx context.Context, interfaceName string) ([]PeerView, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, interfaceName)
}

func (s stubPeerCache) Refresh(ctx context.Context, interfaceName string) error {
	if s.refreshFn == nil {
		return nil
	}
	return s.refreshFn(ctx, interfaceName)
}

func (s stubPeerCache) Invalidate(interfaceName string) {
	if s.invalidateFn != nil {
		s.invalidateFn(interfaceName)
	}
}

func (s stubPeerCache) Apply(patch PeerPatch) (PeerPatch, bool) {
	if s.applyFn == nil {
		return PeerPatch{}, false
	}
	return s.applyFn(patch)
}
