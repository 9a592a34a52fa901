// Package expiry applies the expiry action of peers whose expiry time has
// passed.
package expiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Flarenzy/wg-fleet/internal/domain"
	"github.com/jonboulle/clockwork"
)

const DefaultInterval = time.Minute

// Report counts what a single sweep did.
type Report struct {
	Disabled int
	Deleted  int
	Notified int
	// Orphaned counts expired rows whose peer no longer exists on the
	// router. Their metadata is dropped.
	Orphaned int
	Failed   int
}

type Sweeper struct {
	metadata domain.PeerMetadataRepository
	peers    domain.PeerService
	clock    clockwork.Clock
	logger   *slog.Logger
	interval time.Duration

	mu       sync.Mutex
	notified map[string]struct{}
}

func NewSweeper(metadata domain.PeerMetadataRepository, peers domain.PeerService, clock clockwork.Clock, logger *slog.Logger, interval time.Duration) *Sweeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		metadata: metadata,
		peers:    peers,
		clock:    clock,
		logger:   logger,
		interval: interval,
		notified: map[string]struct{}{},
	}
}

// Run sweeps once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.ErrorContext(ctx, "expiry sweep failed", "err", err.Error())
			}
		}
	}
}

// Sweep applies the action of every expired peer. Disable and delete go
// through the bulk path; notify is logged once per peer and expiry time.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	expired, err := s.metadata.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return Report{}, fmt.Errorf("list expired peers: %w", err)
	}

	var (
		report  Report
		disable []domain.PeerTarget
		remove  []domain.PeerTarget
	)
	for _, meta := range expired {
		target := domain.PeerTarget{ID: meta.PeerID, InterfaceName: meta.InterfaceName}
		switch meta.ExpiryAction {
		case domain.ExpiryDelete:
			remove = append(remove, target)
		case domain.ExpiryNotify:
			if s.notifyOnce(ctx, meta) {
				report.Notified++
			}
		default:
			disable = append(disable, target)
		}
	}

	if len(disable) > 0 {
		result, err := s.peers.ApplyBulk(ctx, domain.BulkOperation{Kind: domain.BulkDisable}, disable)
		if err != nil {
			return report, fmt.Errorf("disable expired peers: %w", err)
		}
		for _, item := range result.Items {
			if item.Status == domain.BulkItemFailed && errors.Is(item.Err, domain.ErrPeerNotFound) {
				if err := s.metadata.Delete(ctx, item.Target.InterfaceName, item.Target.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
					s.logger.WarnContext(ctx, "drop orphaned metadata failed", "interface", item.Target.InterfaceName, "peer_id", item.Target.ID, "err", err.Error())
					report.Failed++
					continue
				}
				report.Orphaned++
				continue
			}
			if item.Status == domain.BulkItemFailed {
				report.Failed++
				continue
			}
			report.Disabled++
			if err := s.metadata.SetExpiry(ctx, item.Target.InterfaceName, item.Target.ID, nil, ""); err != nil {
				s.logger.WarnContext(ctx, "clear expiry failed", "interface", item.Target.InterfaceName, "peer_id", item.Target.ID, "err", err.Error())
			}
		}
	}

	if len(remove) > 0 {
		result, err := s.peers.ApplyBulk(ctx, domain.BulkOperation{Kind: domain.BulkDelete}, remove)
		if err != nil {
			return report, fmt.Errorf("delete expired peers: %w", err)
		}
		report.Deleted += result.Succeeded
		report.Failed += result.Failed
	}

	if report != (Report{}) {
		s.logger.InfoContext(ctx, "expiry sweep completed",
			"disabled", report.Disabled, "deleted", report.Deleted, "notified", report.Notified,
			"orphaned", report.Orphaned, "failed", report.Failed)
	}
	return report, nil
}

func (s *Sweeper) notifyOnce(ctx context.Context, meta domain.PeerMetadata) bool {
	key := meta.InterfaceName + "/" + meta.PeerID
	if meta.ExpiresAt != nil {
		key += "@" + meta.ExpiresAt.UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	_, seen := s.notified[key]
	s.notified[key] = struct{}{}
	s.mu.Unlock()
	if seen {
		return false
	}

	s.logger.WarnContext(ctx, "peer expired",
		"interface", meta.InterfaceName, "peer_id", meta.PeerID, "expires_at", meta.ExpiresAt)
	return true
}
