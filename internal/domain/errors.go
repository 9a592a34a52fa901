package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrCapacity       = errors.New("capacity exhausted")
	ErrUpstream       = errors.New("control plane request failed")
	ErrPartialFailure = errors.New("partial failure")
	ErrUnauthorized   = errors.New("unauthorized")
)

var (
	ErrMissingPublicKey   = fmt.Errorf("%w: public key is required unless key generation is requested", ErrInvalidInput)
	ErrMissingAddress     = fmt.Errorf("%w: allowed address is required", ErrInvalidInput)
	ErrInvalidPrivateKey  = fmt.Errorf("%w: private key must be a base64 encoded 32 byte key", ErrInvalidInput)
	ErrKeyMismatch        = fmt.Errorf("%w: public key does not match private key", ErrInvalidInput)
	ErrInvalidAddress     = fmt.Errorf("%w: allowed address must be a dotted-quad address with optional /0-32 prefix", ErrInvalidInput)
	ErrMissingInterface   = fmt.Errorf("%w: interface name is required", ErrInvalidInput)
	ErrOutOfRange         = fmt.Errorf("%w: address outside pool range", ErrInvalidInput)
	ErrAddressInUse       = fmt.Errorf("%w: address already allocated", ErrConflict)
	ErrDuplicatePublicKey = fmt.Errorf("%w: public key already used by another peer", ErrConflict)
	ErrPoolExhausted      = fmt.Errorf("%w: address pool exhausted", ErrCapacity)
	ErrNoPool             = fmt.Errorf("%w: no active address pool bound to interface", ErrCapacity)
	ErrPeerNotFound       = fmt.Errorf("%w: peer does not exist on the control plane", ErrNotFound)
	ErrExportUnavailable  = fmt.Errorf("%w: no private key stored for peer, config export unavailable", ErrConflict)
)

// UpstreamError reports a failed control-plane or persistence call made on
// behalf of one peer. It matches ErrUpstream with errors.Is.
type UpstreamError struct {
	Op     string
	PeerID string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.PeerID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s peer %s: %v", e.Op, e.PeerID, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func upstream(op, peerID string, err error) error {
	if err == nil {
		return nil
	}
	// Domain errors raised by adapters (not found, conflict) pass through untouched.
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return &UpstreamError{Op: op, PeerID: peerID, Err: err}
}
