package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/Flarenzy/wg-fleet/internal/auth"
	"github.com/Flarenzy/wg-fleet/internal/cache"
	"github.com/Flarenzy/wg-fleet/internal/controlplane/routeros"
	appdb "github.com/Flarenzy/wg-fleet/internal/db"
	sqlcdb "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
	"github.com/Flarenzy/wg-fleet/internal/expiry"
	apihttp "github.com/Flarenzy/wg-fleet/internal/http"
	"github.com/Flarenzy/wg-fleet/internal/sealbox"
)

func Run(ctx context.Context, cfg Config) error {
	listener, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return Serve(ctx, cfg, listener)
}

// Serve wires the services and serves HTTP on listener until ctx is done.
// The listener is left open when startup fails.
func Serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger := newLogger(cfg.LogLevel)
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultConfig().ShutdownTimeout
	}

	authenticator, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return err
	}

	pool, err := appdb.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := appdb.Migrate(ctx, pool); err != nil {
		return err
	}

	router, err := routeros.New(routeros.Config{
		BaseURL:            cfg.Router.URL,
		Username:           cfg.Router.Username,
		Password:           cfg.Router.Password,
		Timeout:            cfg.Router.Timeout,
		InsecureSkipVerify: cfg.Router.Insecure,
		RequestsPerSecond:  cfg.Router.RequestsPerSecond,
		Burst:              cfg.Router.Burst,
		PublicEndpoint:     cfg.Router.PublicEndpoint,
		ClientAllowedIPs:   cfg.Router.ClientAllowedIPs,
	})
	if err != nil {
		return err
	}

	var sealer domain.SecretSealer
	if cfg.SealIdentity != "" {
		box, err := sealbox.New(cfg.SealIdentity)
		if err != nil {
			return err
		}
		sealer = box
		logger.InfoContext(ctx, "sealing private keys", "recipient", box.Recipient())
	} else {
		logger.WarnContext(ctx, "no seal identity configured, generated private keys will not be stored")
	}

	queries := sqlcdb.New(pool)
	pools := appdb.NewPoolRepository(queries)
	allocations := appdb.NewAllocationRepository(queries)
	templates := appdb.NewTemplateRepository(queries)
	metadata := appdb.NewMetadataRepository(queries)

	clock := clockwork.NewRealClock()
	addresses := domain.NewAddressService(pools, allocations, router, clock)
	resolver := domain.NewResolver(templates, addresses, router, domain.DuplicateKeyPolicy(cfg.DuplicateKeyPolicy), clock)
	bulk := domain.NewBulkCoordinator(router, metadata, allocations, cfg.BulkConcurrency)

	peerCache := cache.New(domain.NewPeerLoader(router, metadata), clock, logger, cache.Config{
		RefreshInterval: cfg.PeerCacheRefresh,
		TTL:             cfg.PeerCacheTTL,
	})

	peers := domain.NewLoggingPeerService(logger, domain.NewPeerService(domain.PeerServiceDeps{
		Resolver:     resolver,
		Bulk:         bulk,
		Addresses:    addresses,
		ControlPlane: router,
		Metadata:     metadata,
		Templates:    templates,
		Sealer:       sealer,
		Cache:        peerCache,
		Clock:        clock,
	}))
	sweeper := expiry.NewSweeper(metadata, peers, clock, logger, cfg.ExpiryInterval)

	api := apihttp.NewAPI(logger, pool, domain.NewLoggingAddressService(logger, addresses), peers, authenticator)
	api.WriteRole = cfg.WriteRole
	api.Refresh = peerCache

	server := &http.Server{
		Handler:      api.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	peerCache.Start(gctx)
	defer peerCache.Stop()

	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		logger.InfoContext(gctx, "serving http", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newAuthenticator(ctx context.Context, cfg Config) (auth.Authenticator, error) {
	return auth.NewKeycloakAuthenticator(ctx, auth.Config{
		Enabled:  cfg.AuthEnabled,
		Issuer:   cfg.AuthIssuer,
		JWKSURL:  cfg.AuthJWKSURL,
		Audience: cfg.AuthAudience,
		ClientID: cfg.AuthClientID,
	})
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
