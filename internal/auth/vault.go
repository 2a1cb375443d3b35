// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides encrypted storage of remember-me credentials.
//
// Credentials are sealed with AES-256-GCM under a key derived via
// PBKDF2-SHA-256 from a machine-local secret. The sealed blob lives in the
// local store; the secret lives next to the database with 0600 permissions.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
// The input is already a random secret, not a password, so this stretches
// rather than protects against guessing.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidBlob indicates the sealed blob format is invalid
	ErrInvalidBlob = errors.New("invalid credential blob")
	// ErrUnsealFailed indicates decryption failed (wrong key or tampered data)
	ErrUnsealFailed = errors.New("credential decryption failed")
)

// =============================================================================
// CREDENTIALS
// =============================================================================

// Credentials is a remembered user id and password pair.
type Credentials struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// =============================================================================
// VAULT
// =============================================================================

// Vault seals and unseals credentials with a machine-local key.
// It is safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
	path string
	mu   sync.Mutex
}

// DefaultVaultPath returns the default secret location, ~/.filmpilot/vault.key.
func DefaultVaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".filmpilot", "vault.key"), nil
}

// NewVault opens the vault, generating the machine secret on first use.
func NewVault(path string) (*Vault, error) {
	material, err := loadOrCreateSecret(path)
	if err != nil {
		return nil, err
	}
	// SECURITY: Zero key material to prevent memory disclosure
	defer zeroBytes(material)

	secret := material[:KeySize]
	salt := material[KeySize:]

	key := pbkdf2.Key(secret, salt, PBKDF2Iterations, KeySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Vault{aead: aead, path: path}, nil
}

// Seal encrypts credentials into an opaque blob (format: nonce || ciphertext || tag).
func (v *Vault) Seal(creds Credentials) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	defer zeroBytes(plaintext)

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return v.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a sealed credential blob.
func (v *Vault) Open(blob []byte) (Credentials, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(blob) < NonceSize {
		return Credentials{}, ErrInvalidBlob
	}

	nonce := blob[:NonceSize]
	ciphertext := blob[NonceSize:]

	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Credentials{}, ErrUnsealFailed
	}
	defer zeroBytes(plaintext)

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return Credentials{}, ErrInvalidBlob
	}
	return creds, nil
}

// =============================================================================
// KEY MATERIAL
// =============================================================================

// loadOrCreateSecret reads the machine secret file, creating it with fresh
// random material (secret || salt) if it does not exist.
func loadOrCreateSecret(path string) ([]byte, error) {
	material, err := os.ReadFile(path)
	if err == nil {
		if len(material) != KeySize+SaltSize {
			return nil, fmt.Errorf("corrupt secret file %s", path)
		}
		return material, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	material = make([]byte, KeySize+SaltSize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, material, 0600); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}
	return material, nil
}

// zeroBytes securely zeros sensitive byte slices to prevent memory disclosure.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
