package http

import (
	"fmt"
	"net/http"

	"github.com/Flarenzy/wg-fleet/internal/auth"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type CacheStatusResponse struct {
	Paused bool `json:"paused" example:"false"`
}

// @Summary Peer cache refresh status
// @Tags cache
// @Produce json
// @Success 200 {object} CacheStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cache [get]
func (a *API) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	if a.Refresh == nil {
		a.writeError(w, r, "reading cache status", fmt.Errorf("%w: peer cache is not configured", domain.ErrNotFound))
		return
	}
	a.respond(w, r, http.StatusOK, CacheStatusResponse{Paused: a.Refresh.Paused()})
}

// @Summary Pause the periodic peer cache refresh
// @Description Reads keep working; entries are only loaded on demand until resumed.
// @Tags cache
// @Produce json
// @Success 200 {object} CacheStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cache/pause [post]
func (a *API) handlePauseCache(w http.ResponseWriter, r *http.Request) {
	a.setCachePaused(w, r, true)
}

// @Summary Resume the periodic peer cache refresh
// @Tags cache
// @Produce json
// @Success 200 {object} CacheStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cache/resume [post]
func (a *API) handleResumeCache(w http.ResponseWriter, r *http.Request) {
	a.setCachePaused(w, r, false)
}

func (a *API) setCachePaused(w http.ResponseWriter, r *http.Request, paused bool) {
	if a.Refresh == nil {
		a.writeError(w, r, "changing cache refresh", fmt.Errorf("%w: peer cache is not configured", domain.ErrNotFound))
		return
	}
	if paused {
		a.Refresh.Pause()
	} else {
		a.Refresh.Resume()
	}
	a.Logger.InfoContext(r.Context(), "peer cache refresh changed", "actor", auth.Actor(r.Context()), "paused", paused)
	a.respond(w, r, http.StatusOK, CacheStatusResponse{Paused: a.Refresh.Paused()})
}
