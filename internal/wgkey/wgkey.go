// Package wgkey handles WireGuard Curve25519 keys in their base64 text form.
package wgkey

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

var ErrInvalidKey = errors.New("not a base64 encoded 32 byte key")

// Generate returns a clamped private key and its public key.
func Generate() (publicKey, privateKey string, err error) {
	var private [curve25519.ScalarSize]byte
	if _, err := rand.Read(private[:]); err != nil {
		return "", "", fmt.Errorf("read random key: %w", err)
	}
	private[0] &= 248
	private[31] = (private[31] & 127) | 64

	privateKey = base64.StdEncoding.EncodeToString(private[:])
	publicKey, err = PublicKey(privateKey)
	if err != nil {
		return "", "", err
	}
	return publicKey, privateKey, nil
}

// PublicKey derives the public key of privateKey.
func PublicKey(privateKey string) (string, error) {
	private, err := decode(privateKey)
	if err != nil {
		return "", err
	}
	public, err := curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("derive public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(public), nil
}

// Valid reports whether key is a well-formed WireGuard key.
func Valid(key string) bool {
	_, err := decode(key)
	return err == nil
}

func decode(key string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(raw) != curve25519.ScalarSize {
		return nil, ErrInvalidKey
	}
	return raw, nil
}
