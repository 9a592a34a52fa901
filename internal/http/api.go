package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Flarenzy/wg-fleet/internal/auth"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RefreshController suspends and resumes the periodic peer cache refresh.
type RefreshController interface {
	Pause()
	Resume()
	Paused() bool
}

type API struct {
	Logger        *slog.Logger
	Health        HealthChecker
	Addresses     domain.AddressService
	Peers         domain.PeerService
	Authenticator auth.Authenticator
	// Refresh is optional; without it the cache endpoints answer 404.
	Refresh RefreshController
	// WriteRole, when set, is required for every non-GET request under /api.
	WriteRole string
}

func NewAPI(logger *slog.Logger, health HealthChecker, addresses domain.AddressService, peers domain.PeerService, authenticator auth.Authenticator) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		Logger:        logger,
		Health:        health,
		Addresses:     addresses,
		Peers:         peers,
		Authenticator: authenticator,
	}
}

func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("GET /api/v1/interfaces/{iface}/peers", a.handleListPeers)
	mux.HandleFunc("POST /api/v1/interfaces/{iface}/peers", a.handleCreatePeer)
	mux.HandleFunc("PATCH /api/v1/interfaces/{iface}/peers/{id}", a.handleTogglePeer)
	mux.HandleFunc("PUT /api/v1/interfaces/{iface}/peers/{id}/expiry", a.handleSetPeerExpiry)
	mux.HandleFunc("GET /api/v1/interfaces/{iface}/peers/{id}/config", a.handleExportPeer)
	mux.HandleFunc("GET /api/v1/interfaces/{iface}/next-address", a.handleNextAddress)
	mux.HandleFunc("POST /api/v1/peers/bulk", a.handleBulk)

	mux.HandleFunc("GET /api/v1/pools", a.handleListPools)
	mux.HandleFunc("POST /api/v1/pools", a.handleCreatePool)
	mux.HandleFunc("GET /api/v1/pools/{id}", a.handleGetPool)
	mux.HandleFunc("DELETE /api/v1/pools/{id}", a.handleDeletePool)
	mux.HandleFunc("GET /api/v1/pools/{id}/allocations", a.handleListAllocations)
	mux.HandleFunc("POST /api/v1/pools/{id}/allocations", a.handleAllocate)
	mux.HandleFunc("DELETE /api/v1/allocations/{id}", a.handleRelease)

	mux.HandleFunc("GET /api/v1/cache", a.handleCacheStatus)
	mux.HandleFunc("POST /api/v1/cache/pause", a.handlePauseCache)
	mux.HandleFunc("POST /api/v1/cache/resume", a.handleResumeCache)

	mux.HandleFunc("GET /api/v1/templates", a.handleListTemplates)
	mux.HandleFunc("POST /api/v1/templates", a.handleCreateTemplate)
	mux.HandleFunc("GET /api/v1/templates/{id}", a.handleGetTemplate)
	mux.HandleFunc("DELETE /api/v1/templates/{id}", a.handleDeleteTemplate)

	return a.authMiddleware(mux)
}
