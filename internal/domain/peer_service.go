package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// PeerLoader fetches and normalizes the peers of one interface.
type PeerLoader func(ctx context.Context, interfaceName string) ([]PeerView, error)

// NewPeerLoader joins the control-plane peer list with stored metadata.
func NewPeerLoader(controlPlane ControlPlane, metadata PeerMetadataRepository) PeerLoader {
	return func(ctx context.Context, interfaceName string) ([]PeerView, error) {
		raws, err := controlPlane.ListPeers(ctx, interfaceName)
		if err != nil {
			return nil, upstream("list peers", "", err)
		}
		for i := range raws {
			if raws[i].InterfaceName == "" {
				raws[i].InterfaceName = interfaceName
			}
		}

		var metas []PeerMetadata
		if metadata != nil {
			if metas, err = metadata.ListByInterface(ctx, interfaceName); err != nil {
				return nil, fmt.Errorf("list peer metadata: %w", err)
			}
		}
		return NormalizePeers(raws, metas), nil
	}
}

type PeerServiceDeps struct {
	Resolver     *Resolver
	Bulk         *BulkCoordinator
	Addresses    AddressService
	ControlPlane ControlPlane
	Metadata     PeerMetadataRepository
	Templates    TemplateRepository
	Sealer       SecretSealer
	Cache        PeerCache
	Clock        clockwork.Clock
}

type peerService struct {
	resolver     *Resolver
	bulk         *BulkCoordinator
	addresses    AddressService
	controlPlane ControlPlane
	metadata     PeerMetadataRepository
	templates    TemplateRepository
	sealer       SecretSealer
	cache        PeerCache
	load         PeerLoader
	clock        clockwork.Clock
}

func NewPeerService(deps PeerServiceDeps) PeerService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &peerService{
		resolver:     deps.Resolver,
		bulk:         deps.Bulk,
		addresses:    deps.Addresses,
		controlPlane: deps.ControlPlane,
		metadata:     deps.Metadata,
		templates:    deps.Templates,
		sealer:       deps.Sealer,
		cache:        deps.Cache,
		load:         NewPeerLoader(deps.ControlPlane, deps.Metadata),
		clock:        deps.Clock,
	}
}

func (s *peerService) ListNormalizedPeers(ctx context.Context, interfaceName string) ([]PeerView, error) {
	if interfaceName == "" {
		return nil, ErrMissingInterface
	}
	if s.cache != nil {
		return s.cache.Get(ctx, interfaceName)
	}
	return s.load(ctx, interfaceName)
}

// ResolveAndCreate resolves the request, creates the peer and then enriches
// it. Nothing is written before the control plane confirms the peer; failures
// after that point degrade the result instead of failing it.
func (s *peerService) ResolveAndCreate(ctx context.Context, input CreatePeerInput) (CreatePeerResult, error) {
	res, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		return CreatePeerResult{}, err
	}
	spec := res.Spec

	raw, err := s.controlPlane.CreatePeer(ctx, spec)
	if err != nil {
		return CreatePeerResult{}, upstream("create peer", "", err)
	}
	if raw.InterfaceName == "" {
		raw.InterfaceName = spec.InterfaceName
	}
	if raw.PublicKey == "" {
		raw.PublicKey = spec.PublicKey
	}
	if s.cache != nil {
		defer s.cache.Invalidate(spec.InterfaceName)
	}

	result := CreatePeerResult{Warnings: res.Warnings}
	if res.Auto != nil {
		allocation, err := s.addresses.Allocate(ctx, res.Auto.PoolID, AllocateInput{
			Address:   res.Auto.Address.Addr().String(),
			PeerID:    raw.ID,
			PublicKey: raw.PublicKey,
		})
		if err != nil {
			result.EnrichmentErrors = append(result.EnrichmentErrors, fmt.Sprintf("record allocation %s: %v", res.Auto.Address, err))
		} else {
			result.Allocation = &allocation
		}
	}

	meta, errs := s.enrich(ctx, raw, spec)
	result.EnrichmentErrors = append(result.EnrichmentErrors, errs...)
	if len(result.EnrichmentErrors) > 0 {
		result.Degraded = true
		meta.EnrichmentFailed = true
		reason := strings.Join(result.EnrichmentErrors, "; ")
		if s.metadata != nil {
			if err := s.metadata.MarkEnrichmentFailed(ctx, raw.InterfaceName, raw.ID, reason); err != nil {
				result.EnrichmentErrors = append(result.EnrichmentErrors, fmt.Sprintf("record enrichment failure: %v", err))
			}
		}
	}

	result.Peer = NormalizePeer(raw, &meta)

	if spec.PrivateKey != "" {
		export, err := s.controlPlane.RenderConfig(ctx, ConfigRequest{
			PeerID:        raw.ID,
			InterfaceName: raw.InterfaceName,
			PrivateKey:    spec.PrivateKey,
			DNS:           spec.DNS,
			MTU:           spec.MTU,
		})
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("render config: %v", err))
		} else {
			result.Export = &export
		}
	}
	return result, nil
}

// enrich writes metadata and expiry independently of each other and returns
// the metadata as it was meant to be stored along with any failures.
func (s *peerService) enrich(ctx context.Context, raw RawPeer, spec PeerSpec) (PeerMetadata, []string) {
	meta := PeerMetadata{
		PeerID:        raw.ID,
		InterfaceName: raw.InterfaceName,
		PublicKey:     raw.PublicKey,
		Group:         spec.Group,
		GroupColor:    spec.GroupColor,
		Tags:          slices.Clone(spec.Tags),
		Notes:         spec.Notes,
		TemplateID:    spec.TemplateID,
		MTU:           spec.MTU,
		UpdatedAt:     s.clock.Now(),
	}
	if spec.ExpiresAt != nil {
		meta.ExpiresAt = spec.ExpiresAt
		meta.ExpiryAction = spec.ExpiryAction
		if meta.ExpiryAction == "" {
			meta.ExpiryAction = ExpiryDisable
		}
	}

	var failures [3]string
	if spec.PrivateKey != "" {
		if s.sealer == nil {
			failures[0] = "seal private key: no sealing key configured"
		} else if sealed, err := s.sealer.Seal(spec.PrivateKey); err != nil {
			failures[0] = fmt.Sprintf("seal private key: %v", err)
		} else {
			meta.SealedPrivateKey = sealed
		}
	}

	if s.metadata == nil {
		failures[1] = "store metadata: metadata store is not configured"
	} else {
		var g errgroup.Group
		g.Go(func() error {
			if err := s.metadata.Upsert(ctx, meta); err != nil {
				failures[1] = fmt.Sprintf("store metadata: %v", err)
			}
			return nil
		})
		if meta.ExpiresAt != nil {
			g.Go(func() error {
				if err := s.metadata.SetExpiry(ctx, meta.InterfaceName, meta.PeerID, meta.ExpiresAt, meta.ExpiryAction); err != nil {
					failures[2] = fmt.Sprintf("store expiry: %v", err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	var errs []string
	for _, failure := range failures {
		if failure != "" {
			errs = append(errs, failure)
		}
	}
	if failures[1] != "" {
		meta.SealedPrivateKey = ""
	}
	return meta, errs
}

// SetPeerEnabled flips the cached state first and reverts it if the control
// plane rejects the change.
func (s *peerService) SetPeerEnabled(ctx context.Context, target PeerTarget, enabled bool) error {
	if target.ID == "" {
		return fmt.Errorf("%w: peer id is required", ErrInvalidInput)
	}
	if target.InterfaceName == "" {
		return ErrMissingInterface
	}

	var (
		inverse PeerPatch
		applied bool
	)
	if s.cache != nil {
		disabled := !enabled
		inverse, applied = s.cache.Apply(PeerPatch{Target: target, Disabled: &disabled})
	}

	if err := s.controlPlane.SetPeerEnabled(ctx, target.ID, target.InterfaceName, enabled); err != nil {
		if applied {
			s.cache.Apply(inverse)
		}
		return upstream("set enabled", target.ID, err)
	}
	return nil
}

// ApplyBulk runs the bulk operation and then refreshes every touched
// interface from the control plane.
func (s *peerService) ApplyBulk(ctx context.Context, op BulkOperation, targets []PeerTarget) (BulkOperationResult, error) {
	result, err := s.bulk.Apply(ctx, op, targets)
	if err != nil {
		return BulkOperationResult{}, err
	}
	if s.cache == nil {
		return result, nil
	}

	var interfaces []string
	for _, target := range targets {
		if target.InterfaceName != "" && !slices.Contains(interfaces, target.InterfaceName) {
			interfaces = append(interfaces, target.InterfaceName)
		}
	}
	for _, iface := range interfaces {
		if err := s.cache.Refresh(ctx, iface); err != nil {
			s.cache.Invalidate(iface)
		}
	}
	return result, nil
}

func (s *peerService) SetPeerExpiry(ctx context.Context, target PeerTarget, at *time.Time, action ExpiryAction) error {
	if target.ID == "" || target.InterfaceName == "" {
		return fmt.Errorf("%w: peer id and interface are required", ErrInvalidInput)
	}
	if at != nil {
		if action == "" {
			action = ExpiryDisable
		}
		if !action.Valid() {
			return fmt.Errorf("%w: expiry action must be disable, delete or notify", ErrInvalidInput)
		}
	} else {
		action = ""
	}
	if s.metadata == nil {
		return fmt.Errorf("%w: metadata store is not configured", ErrUpstream)
	}
	if err := s.metadata.SetExpiry(ctx, target.InterfaceName, target.ID, at, action); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(target.InterfaceName)
	}
	return nil
}

func (s *peerService) ExportPeer(ctx context.Context, target PeerTarget) (PeerExport, error) {
	if target.ID == "" || target.InterfaceName == "" {
		return PeerExport{}, fmt.Errorf("%w: peer id and interface are required", ErrInvalidInput)
	}
	if s.metadata == nil || s.sealer == nil {
		return PeerExport{}, ErrExportUnavailable
	}

	meta, err := s.metadata.Find(ctx, target.InterfaceName, target.ID)
	if errors.Is(err, ErrNotFound) || (err == nil && meta.SealedPrivateKey == "") {
		return PeerExport{}, ErrExportUnavailable
	}
	if err != nil {
		return PeerExport{}, err
	}

	privateKey, err := s.sealer.Open(meta.SealedPrivateKey)
	if err != nil {
		return PeerExport{}, fmt.Errorf("open private key of peer %s: %w", target.ID, err)
	}

	// DNS comes from the router's client-dns, which holds what the peer was
	// created with. MTU only lives in the metadata row.
	req := ConfigRequest{PeerID: target.ID, InterfaceName: target.InterfaceName, PrivateKey: privateKey, MTU: meta.MTU}

	export, err := s.controlPlane.RenderConfig(ctx, req)
	if err != nil {
		return PeerExport{}, upstream("render config", target.ID, err)
	}
	return export, nil
}

func (s *peerService) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.templates.List(ctx)
}

func (s *peerService) GetTemplate(ctx context.Context, id int64) (Template, error) {
	return s.templates.FindByID(ctx, id)
}

func (s *peerService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.AllowedAddress = strings.TrimSpace(input.AllowedAddress)
	if err := ValidateTemplate(input); err != nil {
		return Template{}, err
	}
	return s.templates.Create(ctx, input)
}

func (s *peerService) DeleteTemplate(ctx context.Context, id int64) error {
	deleted, err := s.templates.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
