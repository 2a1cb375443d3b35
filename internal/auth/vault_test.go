// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides encrypted storage of remember-me credentials.
package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// VAULT TESTS
// =============================================================================

func TestVault_SealAndOpen(t *testing.T) {
	vault, err := NewVault(filepath.Join(t.TempDir(), "vault.key"))
	require.NoError(t, err)

	creds := Credentials{UserID: "alice", Password: "p@ssw0rd"}

	blob, err := vault.Seal(creds)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	got, err := vault.Open(blob)
	require.NoError(t, err)
	require.Equal(t, creds, got)
}

func TestVault_BlobIsOpaque(t *testing.T) {
	vault, err := NewVault(filepath.Join(t.TempDir(), "vault.key"))
	require.NoError(t, err)

	blob, err := vault.Seal(Credentials{UserID: "alice", Password: "secret"})
	require.NoError(t, err)

	require.NotContains(t, string(blob), "alice")
	require.NotContains(t, string(blob), "secret")
}

func TestVault_OpenSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")

	vault, err := NewVault(path)
	require.NoError(t, err)

	blob, err := vault.Seal(Credentials{UserID: "bob", Password: "pw"})
	require.NoError(t, err)

	// A new vault over the same secret file opens old blobs.
	vault2, err := NewVault(path)
	require.NoError(t, err)

	got, err := vault2.Open(blob)
	require.NoError(t, err)
	require.Equal(t, "bob", got.UserID)
}

func TestVault_RejectsTamperedBlob(t *testing.T) {
	vault, err := NewVault(filepath.Join(t.TempDir(), "vault.key"))
	require.NoError(t, err)

	blob, err := vault.Seal(Credentials{UserID: "alice", Password: "pw"})
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = vault.Open(blob)
	require.ErrorIs(t, err, ErrUnsealFailed)
}

func TestVault_RejectsShortBlob(t *testing.T) {
	vault, err := NewVault(filepath.Join(t.TempDir(), "vault.key"))
	require.NoError(t, err)

	_, err = vault.Open([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidBlob)
}

func TestVault_DifferentSecretsCannotOpen(t *testing.T) {
	dir := t.TempDir()

	vault, err := NewVault(filepath.Join(dir, "a.key"))
	require.NoError(t, err)

	other, err := NewVault(filepath.Join(dir, "b.key"))
	require.NoError(t, err)

	blob, err := vault.Seal(Credentials{UserID: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = other.Open(blob)
	require.ErrorIs(t, err, ErrUnsealFailed)
}

func TestVault_SecretFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")

	_, err := NewVault(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestVault_CorruptSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.key")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0600))

	_, err := NewVault(path)
	require.Error(t, err)
}
