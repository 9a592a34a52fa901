// Package sealbox encrypts peer private keys with age before they are stored
// in the metadata table. Ciphertext is base64 so it fits a text column.
package sealbox

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type Box struct {
	identity  *age.X25519Identity
	recipient *age.X25519Recipient
}

var _ domain.SecretSealer = (*Box)(nil)

// New parses an AGE-SECRET-KEY-1... identity.
func New(identity string) (*Box, error) {
	id, err := age.ParseX25519Identity(strings.TrimSpace(identity))
	if err != nil {
		return nil, fmt.Errorf("parsing sealing identity: %w", err)
	}
	return &Box{identity: id, recipient: id.Recipient()}, nil
}

// Generate returns a box with a fresh identity and the identity string to
// persist.
func Generate() (*Box, string, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, "", fmt.Errorf("generating sealing identity: %w", err)
	}
	return &Box{identity: id, recipient: id.Recipient()}, id.String(), nil
}

// Recipient is the public half, safe to log.
func (b *Box) Recipient() string {
	return b.recipient.String()
}

func (b *Box) Seal(plaintext string) (string, error) {
	var ciphertext bytes.Buffer
	w, err := age.Encrypt(&ciphertext, b.recipient)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("writing plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing age encryption: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding base64 ciphertext: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), b.identity)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return string(plaintext), nil
}
