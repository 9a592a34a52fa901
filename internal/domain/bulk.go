package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type BulkOperationKind string

const (
	BulkEnable      BulkOperationKind = "enable"
	BulkDisable     BulkOperationKind = "disable"
	BulkDelete      BulkOperationKind = "delete"
	BulkAssignGroup BulkOperationKind = "assign-group"
	BulkAddTag      BulkOperationKind = "add-tag"
)

// BulkOperation is one logical action applied to every target. Group and
// GroupColor are read by BulkAssignGroup, Tag by BulkAddTag.
type BulkOperation struct {
	Kind       BulkOperationKind
	Group      string
	GroupColor string
	Tag        string
}

func (op BulkOperation) Validate() error {
	switch op.Kind {
	case BulkEnable, BulkDisable, BulkDelete:
		return nil
	case BulkAssignGroup:
		if strings.TrimSpace(op.Group) == "" {
			return fmt.Errorf("%w: assign-group requires a group name", ErrInvalidInput)
		}
		return nil
	case BulkAddTag:
		if strings.TrimSpace(op.Tag) == "" {
			return fmt.Errorf("%w: add-tag requires a tag", ErrInvalidInput)
		}
		return nil
	case "":
		return fmt.Errorf("%w: operation is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown bulk operation %q", ErrInvalidInput, op.Kind)
	}
}

type BulkItemStatus string

const (
	BulkItemSucceeded BulkItemStatus = "succeeded"
	BulkItemFailed    BulkItemStatus = "failed"
	BulkItemSkipped   BulkItemStatus = "skipped"
)

// BulkItemResult is the terminal state of one target. Skipped items already
// satisfied the operation and count as succeeded.
type BulkItemResult struct {
	Target   PeerTarget
	Status   BulkItemStatus
	Err      error
	Warnings []string
}

type BulkOperationResult struct {
	ID        string
	Operation BulkOperation
	Requested int
	Succeeded int
	Failed    int
	Skipped   int
	Items     []BulkItemResult
}

// Summary renders the counters and every failure in one line.
func (r BulkOperationResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d succeeded", r.Operation.Kind, r.Succeeded, r.Requested)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, " (%d already in state)", r.Skipped)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed:", r.Failed)
		for _, item := range r.Items {
			if item.Status == BulkItemFailed {
				fmt.Fprintf(&b, " %s/%s: %v;", item.Target.InterfaceName, item.Target.ID, item.Err)
			}
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Err is ErrPartialFailure when at least one item failed.
func (r BulkOperationResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d items failed", ErrPartialFailure, r.Failed, r.Requested)
}

const DefaultBulkConcurrency = 8

// BulkCoordinator issues one control-plane call per target and never aborts
// on a single item's failure.
type BulkCoordinator struct {
	controlPlane ControlPlane
	metadata     PeerMetadataRepository
	allocations  AllocationRepository
	concurrency  int
}

func NewBulkCoordinator(controlPlane ControlPlane, metadata PeerMetadataRepository, allocations AllocationRepository, concurrency int) *BulkCoordinator {
	if concurrency <= 0 {
		concurrency = DefaultBulkConcurrency
	}
	return &BulkCoordinator{
		controlPlane: controlPlane,
		metadata:     metadata,
		allocations:  allocations,
		concurrency:  concurrency,
	}
}

// Apply runs op against targets. The returned error is non-nil only for a
// structurally invalid request; per-item failures are reported in the result.
func (c *BulkCoordinator) Apply(ctx context.Context, op BulkOperation, targets []PeerTarget) (BulkOperationResult, error) {
	if len(targets) == 0 {
		return BulkOperationResult{}, fmt.Errorf("%w: at least one target is required", ErrInvalidInput)
	}
	if err := op.Validate(); err != nil {
		return BulkOperationResult{}, err
	}

	snapshot := c.snapshot(ctx, targets)

	items := make([]BulkItemResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			items[i] = c.applyOne(gctx, op, target, snapshot)
			return nil
		})
	}
	_ = g.Wait()

	res := BulkOperationResult{
		ID:        uuid.NewString(),
		Operation: op,
		Requested: len(targets),
		Items:     items,
	}
	for _, item := range items {
		switch item.Status {
		case BulkItemFailed:
			res.Failed++
		case BulkItemSkipped:
			res.Skipped++
			res.Succeeded++
		default:
			res.Succeeded++
		}
	}
	return res, nil
}

type peerSnapshot struct {
	peers map[PeerTarget]RawPeer
	errs  map[string]error
}

func (s peerSnapshot) lookup(target PeerTarget) (RawPeer, error) {
	if err, ok := s.errs[target.InterfaceName]; ok {
		return RawPeer{}, err
	}
	peer, ok := s.peers[target]
	if !ok {
		return RawPeer{}, fmt.Errorf("%w: peer %s on %s", ErrPeerNotFound, target.ID, target.InterfaceName)
	}
	return peer, nil
}

// snapshot lists the current peers of every interface named by targets.
func (c *BulkCoordinator) snapshot(ctx context.Context, targets []PeerTarget) peerSnapshot {
	s := peerSnapshot{peers: map[PeerTarget]RawPeer{}, errs: map[string]error{}}
	var interfaces []string
	for _, target := range targets {
		if target.InterfaceName != "" && !slices.Contains(interfaces, target.InterfaceName) {
			interfaces = append(interfaces, target.InterfaceName)
		}
	}
	for _, iface := range interfaces {
		peers, err := c.controlPlane.ListPeers(ctx, iface)
		if err != nil {
			s.errs[iface] = upstream("list peers", "", err)
			continue
		}
		for _, peer := range peers {
			s.peers[PeerTarget{ID: peer.ID, InterfaceName: iface}] = peer
		}
	}
	return s
}

func (c *BulkCoordinator) applyOne(ctx context.Context, op BulkOperation, target PeerTarget, snapshot peerSnapshot) BulkItemResult {
	item := BulkItemResult{Target: target}
	fail := func(err error) BulkItemResult {
		item.Status = BulkItemFailed
		item.Err = err
		return item
	}

	if target.ID == "" || target.InterfaceName == "" {
		return fail(fmt.Errorf("%w: target needs a peer id and interface", ErrInvalidInput))
	}
	peer, err := snapshot.lookup(target)
	if err != nil {
		if op.Kind == BulkDelete && errors.Is(err, ErrPeerNotFound) {
			return c.alreadyDeleted(ctx, item)
		}
		return fail(err)
	}

	disabled := NormalizeDisabled(peer.Disabled)
	switch op.Kind {
	case BulkEnable, BulkDisable:
		enable := op.Kind == BulkEnable
		if disabled != enable {
			item.Status = BulkItemSkipped
			return item
		}
		if err := c.controlPlane.SetPeerEnabled(ctx, target.ID, target.InterfaceName, enable); err != nil {
			return fail(upstream(string(op.Kind), target.ID, err))
		}

	case BulkDelete:
		if err := c.controlPlane.DeletePeer(ctx, target.ID, target.InterfaceName); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.alreadyDeleted(ctx, item)
			}
			return fail(upstream("delete", target.ID, err))
		}
		item.Warnings = c.cleanup(ctx, target)

	case BulkAssignGroup, BulkAddTag:
		if err := c.enrich(ctx, op, peer, target); err != nil {
			return fail(err)
		}
	}

	item.Status = BulkItemSucceeded
	return item
}

// alreadyDeleted settles a delete whose peer is gone from the control plane.
// The local state is still released.
func (c *BulkCoordinator) alreadyDeleted(ctx context.Context, item BulkItemResult) BulkItemResult {
	item.Status = BulkItemSkipped
	item.Warnings = append([]string{"peer already absent from the control plane"}, c.cleanup(ctx, item.Target)...)
	return item
}

// cleanup releases what a deleted peer held locally. Failures only produce
// warnings since the peer is already gone from the control plane.
func (c *BulkCoordinator) cleanup(ctx context.Context, target PeerTarget) []string {
	var warnings []string
	if c.allocations != nil {
		if _, err := c.allocations.ReleaseByPeer(ctx, target.InterfaceName, target.ID); err != nil {
			warnings = append(warnings, fmt.Sprintf("release allocations: %v", err))
		}
	}
	if c.metadata != nil {
		if err := c.metadata.Delete(ctx, target.InterfaceName, target.ID); err != nil && !errors.Is(err, ErrNotFound) {
			warnings = append(warnings, fmt.Sprintf("delete metadata: %v", err))
		}
	}
	return warnings
}

func (c *BulkCoordinator) enrich(ctx context.Context, op BulkOperation, peer RawPeer, target PeerTarget) error {
	if c.metadata == nil {
		return fmt.Errorf("%w: metadata store is not configured", ErrUpstream)
	}
	meta, err := c.metadata.Find(ctx, target.InterfaceName, target.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		meta = PeerMetadata{PeerID: target.ID, InterfaceName: target.InterfaceName, PublicKey: peer.PublicKey}
	case err != nil:
		return upstream("load metadata", target.ID, err)
	}

	if op.Kind == BulkAssignGroup {
		meta.Group = strings.TrimSpace(op.Group)
		meta.GroupColor = op.GroupColor
	} else {
		tag := strings.TrimSpace(op.Tag)
		if slices.Contains(meta.Tags, tag) {
			return nil
		}
		meta.Tags = append(meta.Tags, tag)
	}

	if err := c.metadata.Upsert(ctx, meta); err != nil {
		return upstream("save metadata", target.ID, err)
	}
	return nil
}
