// Package cache holds the read-through peer list cache. Entries are
// refreshed on a clock-driven ticker while the cache runs, and the services
// invalidate or patch them after every mutation.
package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Flarenzy/wg-fleet/internal/domain"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultTTL             = 30 * time.Second
)

type Config struct {
	RefreshInterval time.Duration
	TTL             time.Duration
}

type entry struct {
	peers     []domain.PeerView
	fetchedAt time.Time
}

type PeerCache struct {
	load     domain.PeerLoader
	clock    clockwork.Clock
	logger   *slog.Logger
	interval time.Duration
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]entry
	watched map[string]struct{}
	paused  bool
	// generation is bumped by every mutation of an interface. A load only
	// stores its result when no mutation happened while it ran.
	generation map[string]uint64

	cancel context.CancelFunc
	done   chan struct{}
}

var _ domain.PeerCache = (*PeerCache)(nil)

func New(load domain.PeerLoader, clock clockwork.Clock, logger *slog.Logger, cfg Config) *PeerCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &PeerCache{
		load:     load,
		clock:    clock,
		logger:   logger,
		interval: cfg.RefreshInterval,
		ttl:      cfg.TTL,
		entries:  map[string]entry{},
		watched:  map[string]struct{}{},

		generation: map[string]uint64{},
	}
}

// Get returns the cached peers of interfaceName, loading them when the entry
// is missing or older than the TTL.
func (c *PeerCache) Get(ctx context.Context, interfaceName string) ([]domain.PeerView, error) {
	c.mu.Lock()
	c.watched[interfaceName] = struct{}{}
	e, ok := c.entries[interfaceName]
	c.mu.Unlock()

	if ok && c.clock.Since(e.fetchedAt) < c.ttl {
		return slices.Clone(e.peers), nil
	}
	peers, err := c.fetch(ctx, interfaceName)
	if err != nil {
		return nil, err
	}
	return slices.Clone(peers), nil
}

func (c *PeerCache) Refresh(ctx context.Context, interfaceName string) error {
	c.mu.Lock()
	c.watched[interfaceName] = struct{}{}
	c.mu.Unlock()

	_, err := c.fetch(ctx, interfaceName)
	return err
}

func (c *PeerCache) fetch(ctx context.Context, interfaceName string) ([]domain.PeerView, error) {
	c.mu.Lock()
	started := c.generation[interfaceName]
	c.mu.Unlock()

	peers, err := c.load(ctx, interfaceName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation[interfaceName] == started {
		c.entries[interfaceName] = entry{peers: peers, fetchedAt: c.clock.Now()}
	}
	c.mu.Unlock()
	return peers, nil
}

func (c *PeerCache) Invalidate(interfaceName string) {
	c.mu.Lock()
	c.generation[interfaceName]++
	delete(c.entries, interfaceName)
	c.mu.Unlock()
}

// Apply patches a cached peer in place and returns the patch that undoes
// it. The second result is false when the peer is not cached.
func (c *PeerCache) Apply(patch domain.PeerPatch) (domain.PeerPatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation[patch.Target.InterfaceName]++
	e, ok := c.entries[patch.Target.InterfaceName]
	if !ok {
		return domain.PeerPatch{}, false
	}
	i := slices.IndexFunc(e.peers, func(p domain.PeerView) bool { return p.ID == patch.Target.ID })
	if i < 0 {
		return domain.PeerPatch{}, false
	}

	// Copy on write: callers may still hold the previous slice from Get.
	peers := slices.Clone(e.peers)
	inverse := domain.PeerPatch{Target: patch.Target}
	if patch.Disabled != nil {
		previous := peers[i].Disabled
		inverse.Disabled = &previous
		peers[i].Disabled = *patch.Disabled
		peers[i].Online = peers[i].Handshake != nil && domain.IsOnline(peers[i].Disabled, *peers[i].Handshake, true)
	}
	c.entries[patch.Target.InterfaceName] = entry{peers: peers, fetchedAt: e.fetchedAt}
	return inverse, true
}

// Pause stops periodic refreshes without stopping the cache.
func (c *PeerCache) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *PeerCache) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

func (c *PeerCache) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Start refreshes every watched interface on each tick until ctx is done or
// Stop is called.
func (c *PeerCache) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	ticker := c.clock.NewTicker(c.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				c.refreshWatched(ctx)
			}
		}
	}()
}

func (c *PeerCache) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *PeerCache) refreshWatched(ctx context.Context) {
	c.mu.Lock()
	if c.paused {
		c.mu.Unlock()
		return
	}
	interfaces := make([]string, 0, len(c.watched))
	for name := range c.watched {
		interfaces = append(interfaces, name)
	}
	c.mu.Unlock()
	slices.Sort(interfaces)

	for _, name := range interfaces {
		if _, err := c.fetch(ctx, name); err != nil {
			c.logger.WarnContext(ctx, "peer cache refresh failed", "interface", name, "err", err.Error())
		}
	}
}
