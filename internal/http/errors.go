package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

// ErrorResponse is the envelope for every failed request. Confirmable errors
// can be overridden by resubmitting with duplicate_key_policy "allow".
type ErrorResponse struct {
	Error       string `json:"error" example:"public key already used by another peer"`
	Code        string `json:"code" example:"duplicate_public_key"`
	Confirmable bool   `json:"confirmable,omitempty" example:"true"`
}

type errorMapping struct {
	target      error
	status      int
	code        string
	confirmable bool
}

// Order matters: specific sentinels wrap the generic ones below them.
var errorMappings = []errorMapping{
	{domain.ErrDuplicatePublicKey, http.StatusConflict, "duplicate_public_key", true},
	{domain.ErrAddressInUse, http.StatusConflict, "address_in_use", false},
	{domain.ErrExportUnavailable, http.StatusConflict, "export_unavailable", false},
	{domain.ErrConflict, http.StatusConflict, "conflict", false},
	{domain.ErrPoolExhausted, http.StatusUnprocessableEntity, "pool_exhausted", false},
	{domain.ErrNoPool, http.StatusUnprocessableEntity, "no_pool", false},
	{domain.ErrCapacity, http.StatusUnprocessableEntity, "capacity", false},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input", false},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", false},
	{domain.ErrUpstream, http.StatusBadGateway, "upstream_error", false},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", false},
}

func errorStatus(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, ErrorResponse{Error: err.Error(), Code: m.code, Confirmable: m.confirmable}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out", Code: "timeout"}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	ctx := r.Context()
	status, resp := errorStatus(err)
	attrs = append(attrs, "err", err.Error(), "status", status)
	if status >= http.StatusInternalServerError {
		a.Logger.ErrorContext(ctx, msg, attrs...)
	} else {
		a.Logger.InfoContext(ctx, msg, attrs...)
	}
	if err := encode(w, r, status, resp); err != nil {
		a.Logger.ErrorContext(ctx, "responding to client", "err", err.Error())
	}
}

func (a *API) badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	a.Logger.InfoContext(r.Context(), msg, "err", err.Error())
	if err := encode(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request: " + err.Error(), Code: "invalid_input"}); err != nil {
		a.Logger.ErrorContext(r.Context(), "responding to client", "err", err.Error())
	}
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	if err := encode(w, r, status, body); err != nil {
		a.Logger.ErrorContext(r.Context(), "responding to client", "err", err.Error())
	}
}
