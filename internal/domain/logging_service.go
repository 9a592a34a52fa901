package domain

import (
	"context"
	"log/slog"
	"time"
)

type loggingAddressService struct {
	logger *slog.Logger
	next   AddressService
}

func NewLoggingAddressService(logger *slog.Logger, next AddressService) AddressService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingAddressService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingAddressService) ListPools(ctx context.Context, interfaceName string) ([]PoolSummary, error) {
	pools, err := s.next.ListPools(ctx, interfaceName)
	if err != nil {
		s.logger.ErrorContext(ctx, "list pools failed", "interface", interfaceName, "err", err.Error())
	}
	return pools, err
}

func (s *loggingAddressService) CreatePool(ctx context.Context, input CreatePoolInput) (AddressPool, error) {
	pool, err := s.next.CreatePool(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create pool failed", "interface", input.InterfaceName, "subnet", input.Subnet, "err", err.Error())
		return AddressPool{}, err
	}

	s.logger.InfoContext(ctx, "pool created", "id", pool.ID, "interface", pool.InterfaceName, "range", pool.Range().String())
	return pool, nil
}

func (s *loggingAddressService) GetPool(ctx context.Context, id int64) (PoolSummary, error) {
	pool, err := s.next.GetPool(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get pool failed", "id", id, "err", err.Error())
	}
	return pool, err
}

func (s *loggingAddressService) DeletePool(ctx context.Context, id int64) error {
	err := s.next.DeletePool(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete pool failed", "id", id, "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "pool deleted", "id", id)
	return nil
}

func (s *loggingAddressService) ListAllocations(ctx context.Context, poolID int64) ([]Allocation, error) {
	allocations, err := s.next.ListAllocations(ctx, poolID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list allocations failed", "pool_id", poolID, "err", err.Error())
	}
	return allocations, err
}

func (s *loggingAddressService) Allocate(ctx context.Context, poolID int64, input AllocateInput) (Allocation, error) {
	allocation, err := s.next.Allocate(ctx, poolID, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "allocate address failed", "pool_id", poolID, "address", input.Address, "peer_id", input.PeerID, "err", err.Error())
		return Allocation{}, err
	}

	s.logger.DebugContext(ctx, "address allocated", "pool_id", poolID, "address", allocation.Address.String(), "id", string(allocation.ID))
	return allocation, nil
}

func (s *loggingAddressService) Release(ctx context.Context, id AllocationID) error {
	err := s.next.Release(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "release allocation failed", "id", string(id), "err", err.Error())
		return err
	}

	s.logger.DebugContext(ctx, "allocation released", "id", string(id))
	return nil
}

func (s *loggingAddressService) NextAddress(ctx context.Context, interfaceName string) (AddressCandidate, error) {
	candidate, err := s.next.NextAddress(ctx, interfaceName)
	if err != nil {
		s.logger.ErrorContext(ctx, "next address failed", "interface", interfaceName, "err", err.Error())
	}
	return candidate, err
}

type loggingPeerService struct {
	logger *slog.Logger
	next   PeerService
}

func NewLoggingPeerService(logger *slog.Logger, next PeerService) PeerService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingPeerService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingPeerService) ListNormalizedPeers(ctx context.Context, interfaceName string) ([]PeerView, error) {
	peers, err := s.next.ListNormalizedPeers(ctx, interfaceName)
	if err != nil {
		s.logger.ErrorContext(ctx, "list peers failed", "interface", interfaceName, "err", err.Error())
	}
	return peers, err
}

func (s *loggingPeerService) ResolveAndCreate(ctx context.Context, input CreatePeerInput) (CreatePeerResult, error) {
	result, err := s.next.ResolveAndCreate(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create peer failed", "interface", input.InterfaceName, "name", input.Name, "err", err.Error())
		return CreatePeerResult{}, err
	}

	if result.Degraded {
		s.logger.WarnContext(ctx, "peer created without full enrichment",
			"interface", result.Peer.InterfaceName, "peer_id", result.Peer.ID, "errors", result.EnrichmentErrors)
	} else {
		s.logger.InfoContext(ctx, "peer created", "interface", result.Peer.InterfaceName, "peer_id", result.Peer.ID)
	}
	for _, warning := range result.Warnings {
		s.logger.WarnContext(ctx, "peer creation warning", "peer_id", result.Peer.ID, "warning", warning)
	}
	return result, nil
}

func (s *loggingPeerService) SetPeerEnabled(ctx context.Context, target PeerTarget, enabled bool) error {
	err := s.next.SetPeerEnabled(ctx, target, enabled)
	if err != nil {
		s.logger.ErrorContext(ctx, "set peer enabled failed", "interface", target.InterfaceName, "peer_id", target.ID, "enabled", enabled, "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "peer state changed", "interface", target.InterfaceName, "peer_id", target.ID, "enabled", enabled)
	return nil
}

func (s *loggingPeerService) ApplyBulk(ctx context.Context, op BulkOperation, targets []PeerTarget) (BulkOperationResult, error) {
	result, err := s.next.ApplyBulk(ctx, op, targets)
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk operation rejected", "op", string(op.Kind), "targets", len(targets), "err", err.Error())
		return result, err
	}

	for _, item := range result.Items {
		if item.Status == BulkItemFailed {
			s.logger.ErrorContext(ctx, "bulk item failed",
				"bulk_id", result.ID, "interface", item.Target.InterfaceName, "peer_id", item.Target.ID, "err", item.Err.Error())
		}
	}
	attrs := []any{
		"bulk_id", result.ID, "op", string(op.Kind), "requested", result.Requested,
		"succeeded", result.Succeeded, "failed", result.Failed, "skipped", result.Skipped,
	}
	if partial := result.Err(); partial != nil {
		s.logger.WarnContext(ctx, "bulk operation completed", append(attrs, "err", partial.Error())...)
		return result, nil
	}
	s.logger.InfoContext(ctx, "bulk operation completed", attrs...)
	return result, nil
}

func (s *loggingPeerService) SetPeerExpiry(ctx context.Context, target PeerTarget, at *time.Time, action ExpiryAction) error {
	err := s.next.SetPeerExpiry(ctx, target, at, action)
	if err != nil {
		s.logger.ErrorContext(ctx, "set peer expiry failed", "interface", target.InterfaceName, "peer_id", target.ID, "err", err.Error())
	}
	return err
}

func (s *loggingPeerService) ExportPeer(ctx context.Context, target PeerTarget) (PeerExport, error) {
	export, err := s.next.ExportPeer(ctx, target)
	if err != nil {
		s.logger.ErrorContext(ctx, "export peer failed", "interface", target.InterfaceName, "peer_id", target.ID, "err", err.Error())
	}
	return export, err
}

func (s *loggingPeerService) ListTemplates(ctx context.Context) ([]Template, error) {
	templates, err := s.next.ListTemplates(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list templates failed", "err", err.Error())
	}
	return templates, err
}

func (s *loggingPeerService) GetTemplate(ctx context.Context, id int64) (Template, error) {
	tmpl, err := s.next.GetTemplate(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get template failed", "id", id, "err", err.Error())
	}
	return tmpl, err
}

func (s *loggingPeerService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error) {
	tmpl, err := s.next.CreateTemplate(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create template failed", "name", input.Name, "err", err.Error())
		return Template{}, err
	}

	s.logger.InfoContext(ctx, "template created", "id", tmpl.ID, "name", tmpl.Name)
	return tmpl, nil
}

func (s *loggingPeerService) DeleteTemplate(ctx context.Context, id int64) error {
	err := s.next.DeleteTemplate(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete template failed", "id", id, "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "template deleted", "id", id)
	return nil
}
