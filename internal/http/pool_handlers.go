package http

import (
	"net/http"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

// @Summary List address pools
// @Tags pools
// @Produce json
// @Param interface query string false "Only pools bound to this interface"
// @Success 200 {array} PoolResponse
// @Router /api/v1/pools [get]
func (a *API) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := a.Addresses.ListPools(r.Context(), r.URL.Query().Get("interface"))
	if err != nil {
		a.writeError(w, r, "listing pools", err)
		return
	}
	a.respond(w, r, http.StatusOK, poolsToResponse(pools))
}

// @Summary Create address pool
// @Tags pools
// @Accept json
// @Produce json
// @Param pool body CreatePoolRequest true "Pool payload"
// @Success 201 {object} PoolResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/pools [post]
func (a *API) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	req, err := decode[CreatePoolRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling pool from request", err)
		return
	}
	if err := validateGateway(req.Subnet, req.Gateway); err != nil {
		a.badRequest(w, r, "validating pool gateway", err)
		return
	}

	pool, err := a.Addresses.CreatePool(r.Context(), req.toInput())
	if err != nil {
		a.writeError(w, r, "creating pool", err, "subnet", req.Subnet)
		return
	}
	a.respond(w, r, http.StatusCreated, poolToResponse(domain.PoolSummary{Pool: pool, Usage: pool.Usage(0)}))
}

// @Summary Get address pool with usage
// @Tags pools
// @Produce json
// @Param id path int true "Pool ID"
// @Success 200 {object} PoolResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pools/{id} [get]
func (a *API) handleGetPool(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	pool, err := a.Addresses.GetPool(r.Context(), id)
	if err != nil {
		a.writeError(w, r, "reading pool", err, "id", id)
		return
	}
	a.respond(w, r, http.StatusOK, poolToResponse(pool))
}

// @Summary Delete address pool
// @Tags pools
// @Param id path int true "Pool ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pools/{id} [delete]
func (a *API) handleDeletePool(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	if err := a.Addresses.DeletePool(r.Context(), id); err != nil {
		a.writeError(w, r, "deleting pool", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary List live allocations of a pool
// @Tags pools
// @Produce json
// @Param id path int true "Pool ID"
// @Success 200 {array} AllocationResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pools/{id}/allocations [get]
func (a *API) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	allocations, err := a.Addresses.ListAllocations(r.Context(), id)
	if err != nil {
		a.writeError(w, r, "listing allocations", err, "pool", id)
		return
	}
	a.respond(w, r, http.StatusOK, allocationsToResponse(allocations))
}

// @Summary Allocate an address
// @Tags pools
// @Accept json
// @Produce json
// @Param id path int true "Pool ID"
// @Param payload body AllocateRequest true "Address and owning peer"
// @Success 201 {object} AllocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/pools/{id}/allocations [post]
func (a *API) handleAllocate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	req, err := decode[AllocateRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling allocation from request", err)
		return
	}

	allocation, err := a.Addresses.Allocate(r.Context(), id, domain.AllocateInput{
		Address:   req.Address,
		PeerID:    req.PeerID,
		PublicKey: req.PublicKey,
	})
	if err != nil {
		a.writeError(w, r, "allocating address", err, "pool", id, "address", req.Address)
		return
	}
	a.respond(w, r, http.StatusCreated, allocationToResponse(allocation))
}

// @Summary Release an allocation
// @Description Idempotent for known allocations.
// @Tags pools
// @Param id path string true "Allocation ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/allocations/{id} [delete]
func (a *API) handleRelease(w http.ResponseWriter, r *http.Request) {
	id := domain.AllocationID(r.PathValue("id"))
	if err := a.Addresses.Release(r.Context(), id); err != nil {
		a.writeError(w, r, "releasing allocation", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
