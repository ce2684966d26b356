// Package crypto encrypts sensitive request and response payloads before
// they are persisted in usage records.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/chacha20poly1305"
)

// Common errors
var (
	ErrMissingKey         = errors.New("encryption key is required")
	ErrInvalidKey         = errors.New("encryption key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Manager encrypts and decrypts payloads with XChaCha20-Poly1305.
// The wire form is base64(nonce || sealed); decryption of tampered or
// foreign data fails authentication.
type Manager struct {
	aead cipher.AEAD
}

// NewManager builds a Manager from a 32-byte key, given either raw or
// std-base64 encoded. An empty key is accepted only when allowEphemeral
// is set (non-production environments): a random key is generated and a
// warning is logged, because data encrypted under it cannot be read after
// a restart.
func NewManager(key string, allowEphemeral bool, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var keyBytes []byte
	switch {
	case key == "" && allowEphemeral:
		keyBytes = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(keyBytes); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
		}
		logger.Warn(
			"no encryption key configured, generated ephemeral key; encrypted data will be unreadable after restart",
			slog.String("component", "crypto"),
		)
	case key == "":
		return nil, ErrMissingKey
	default:
		keyBytes = decodeKey(key)
		if len(keyBytes) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(keyBytes))
		}
	}

	aead, err := chacha20poly1305.NewX(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	return &Manager{aead: aead}, nil
}

// decodeKey accepts a std-base64 encoding of a 32-byte key, or the raw
// 32 bytes themselves.
func decodeKey(key string) []byte {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err == nil && len(decoded) == chacha20poly1305.KeySize {
		return decoded
	}
	return []byte(key)
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext).
func (m *Manager) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (m *Manager) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceSize := m.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := m.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
