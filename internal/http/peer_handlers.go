package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Flarenzy/wg-fleet/internal/auth"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

// @Summary List peers of an interface
// @Description Normalized view merging router state with stored metadata.
// @Tags peers
// @Produce json
// @Param iface path string true "WireGuard interface"
// @Success 200 {array} PeerResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/peers [get]
func (a *API) handleListPeers(w http.ResponseWriter, r *http.Request) {
	iface := r.PathValue("iface")
	peers, err := a.Peers.ListNormalizedPeers(r.Context(), iface)
	if err != nil {
		a.writeError(w, r, "listing peers", err, "interface", iface)
		return
	}
	a.respond(w, r, http.StatusOK, peersToResponse(peers))
}

// @Summary Create peer
// @Description Resolves template, auto address and keys, then creates the peer on the router.
// @Description A duplicate_public_key error is confirmable by resending with duplicate_key_policy "allow".
// @Tags peers
// @Accept json
// @Produce json
// @Param iface path string true "WireGuard interface"
// @Param peer body CreatePeerRequest true "Peer payload"
// @Success 201 {object} CreatePeerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/peers [post]
func (a *API) handleCreatePeer(w http.ResponseWriter, r *http.Request) {
	iface := r.PathValue("iface")
	req, err := decode[CreatePeerRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling peer from request", err)
		return
	}

	result, err := a.Peers.ResolveAndCreate(r.Context(), req.toInput(iface))
	if err != nil {
		a.writeError(w, r, "creating peer", err, "interface", iface)
		return
	}
	a.respond(w, r, http.StatusCreated, createResultToResponse(result))
}

// @Summary Enable or disable a peer
// @Tags peers
// @Accept json
// @Param iface path string true "WireGuard interface"
// @Param id path string true "Router peer id"
// @Param payload body TogglePeerRequest true "Desired state"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/peers/{id} [patch]
func (a *API) handleTogglePeer(w http.ResponseWriter, r *http.Request) {
	target := pathTarget(r)
	req, err := decode[TogglePeerRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling toggle from request", err)
		return
	}
	if req.Enabled == nil {
		a.badRequest(w, r, "toggle without state", errors.New("enabled is required"))
		return
	}

	if err := a.Peers.SetPeerEnabled(r.Context(), target, *req.Enabled); err != nil {
		a.writeError(w, r, "toggling peer", err, "peer", target.ID, "interface", target.InterfaceName)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Schedule peer expiry
// @Tags peers
// @Accept json
// @Param iface path string true "WireGuard interface"
// @Param id path string true "Router peer id"
// @Param payload body SetExpiryRequest true "Expiry; null expires_at clears it"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/peers/{id}/expiry [put]
func (a *API) handleSetPeerExpiry(w http.ResponseWriter, r *http.Request) {
	target := pathTarget(r)
	req, err := decode[SetExpiryRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling expiry from request", err)
		return
	}

	if err := a.Peers.SetPeerExpiry(r.Context(), target, req.ExpiresAt, domain.ExpiryAction(req.Action)); err != nil {
		a.writeError(w, r, "setting peer expiry", err, "peer", target.ID, "interface", target.InterfaceName)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Export client configuration
// @Description Returns the wg-quick config as JSON, or the QR code PNG with format=qr.
// @Tags peers
// @Produce json
// @Produce png
// @Param iface path string true "WireGuard interface"
// @Param id path string true "Router peer id"
// @Param format query string false "json (default) or qr"
// @Success 200 {object} PeerExportResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/peers/{id}/config [get]
func (a *API) handleExportPeer(w http.ResponseWriter, r *http.Request) {
	target := pathTarget(r)
	export, err := a.Peers.ExportPeer(r.Context(), target)
	if err != nil {
		a.writeError(w, r, "exporting peer", err, "peer", target.ID, "interface", target.InterfaceName)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "qr", "png":
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(export.QRCode)
	case "conf":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+target.InterfaceName+`.conf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(export.Config))
	default:
		a.respond(w, r, http.StatusOK, exportToResponse(export))
	}
}

// @Summary Next free address
// @Description Suggests the next address of the interface's active pools. Nothing is reserved.
// @Tags pools
// @Produce json
// @Param iface path string true "WireGuard interface"
// @Success 200 {object} NextAddressResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/interfaces/{iface}/next-address [get]
func (a *API) handleNextAddress(w http.ResponseWriter, r *http.Request) {
	iface := r.PathValue("iface")
	candidate, err := a.Addresses.NextAddress(r.Context(), iface)
	if err != nil {
		a.writeError(w, r, "computing next address", err, "interface", iface)
		return
	}
	a.respond(w, r, http.StatusOK, NextAddressResponse{PoolID: candidate.PoolID, Address: candidate.Address.String()})
}

// @Summary Bulk peer operation
// @Description Applies one operation to many peers. Answers 207 when some items failed.
// @Tags peers
// @Accept json
// @Produce json
// @Param payload body BulkRequest true "Operation and targets"
// @Success 200 {object} BulkResponse
// @Success 207 {object} BulkResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/peers/bulk [post]
func (a *API) handleBulk(w http.ResponseWriter, r *http.Request) {
	req, err := decode[BulkRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling bulk request", err)
		return
	}
	targets, err := bulkTargets(req.Targets)
	if err != nil {
		a.badRequest(w, r, "validating bulk targets", err)
		return
	}

	result, err := a.Peers.ApplyBulk(r.Context(), req.toOperation(), targets)
	if err != nil {
		a.writeError(w, r, "applying bulk operation", err, "operation", req.Operation)
		return
	}

	a.Logger.InfoContext(r.Context(), "bulk operation applied",
		"actor", auth.Actor(r.Context()),
		"bulk_id", result.ID,
		"operation", req.Operation,
		"requested", result.Requested,
		"failed", result.Failed,
	)

	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	a.respond(w, r, status, bulkToResponse(result))
}

func pathTarget(r *http.Request) domain.PeerTarget {
	return domain.PeerTarget{ID: r.PathValue("id"), InterfaceName: r.PathValue("iface")}
}
