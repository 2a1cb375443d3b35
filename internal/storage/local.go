// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for FilmPilot TUI.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/store"
	"github.com/filmpilot/filmpilot-tui/internal/util"
)

// =============================================================================
// WELL-KNOWN KEYS
// =============================================================================

// Keys mirror the browser client's localStorage entries so a snapshot
// round-trips between the two frontends.
const (
	KeyTheme       = "theme"
	KeyChatData    = "chat_data"
	KeyInputDraft  = "input_value"
	KeyUserID      = "user_id"
	KeyCredentials = "credentials"
)

// =============================================================================
// CHAT DATA SNAPSHOT
// =============================================================================

// ChatData is the persisted UI state: every conversation with its messages,
// the active conversation name, and the recommendation settings. Restoring
// it fully reconstructs the chat screen.
type ChatData struct {
	store.Snapshot
	Settings model.Settings `json:"settings"`
}

// =============================================================================
// LOCAL STORE
// =============================================================================

// LocalStore is a key-value store backed by SQLite.
// It is safe for concurrent use; SQLite only supports one writer at a time,
// so the connection pool is pinned to a single connection.
type LocalStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns the default database location, ~/.filmpilot/local.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".filmpilot", "local.db"), nil
}

// Open opens (creating if needed) the local store at the given path.
func Open(path string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &LocalStore{db: db, path: path}, nil
}

// Close closes the store and releases resources.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.path
}

// =============================================================================
// RAW KEY-VALUE OPERATIONS
// =============================================================================

// Set stores a value under a key, replacing any previous value.
func (s *LocalStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Get retrieves a value. A missing key is not an error: ok is false.
func (s *LocalStore) Get(key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// TYPED ACCESSORS
// =============================================================================

// Theme returns the saved theme name, or "" if none was saved.
func (s *LocalStore) Theme() string {
	value, ok, err := s.Get(KeyTheme)
	if err != nil || !ok {
		return ""
	}
	return string(value)
}

// SetTheme persists the theme name.
func (s *LocalStore) SetTheme(name string) error {
	return s.Set(KeyTheme, []byte(name))
}

// InputDraft returns the saved input box draft, or "" if none was saved.
func (s *LocalStore) InputDraft() string {
	value, ok, err := s.Get(KeyInputDraft)
	if err != nil || !ok {
		return ""
	}
	return string(value)
}

// SetInputDraft persists the input box draft. An empty draft clears the key.
func (s *LocalStore) SetInputDraft(draft string) error {
	if draft == "" {
		return s.Delete(KeyInputDraft)
	}
	return s.Set(KeyInputDraft, []byte(draft))
}

// UserID returns the saved user id, or "" if nobody is remembered.
func (s *LocalStore) UserID() string {
	value, ok, err := s.Get(KeyUserID)
	if err != nil || !ok {
		return ""
	}
	return string(value)
}

// SetUserID persists the logged-in user id.
func (s *LocalStore) SetUserID(userID string) error {
	if userID == "" {
		return s.Delete(KeyUserID)
	}
	return s.Set(KeyUserID, []byte(userID))
}

// Credentials returns the encrypted remember-me blob, or nil if none.
// Decryption is the auth package's concern.
func (s *LocalStore) Credentials() []byte {
	value, ok, err := s.Get(KeyCredentials)
	if err != nil || !ok {
		return nil
	}
	return value
}

// SetCredentials persists the encrypted remember-me blob.
func (s *LocalStore) SetCredentials(blob []byte) error {
	return s.Set(KeyCredentials, blob)
}

// ClearCredentials forgets the remembered credentials.
func (s *LocalStore) ClearCredentials() error {
	return s.Delete(KeyCredentials)
}

// =============================================================================
// CHAT DATA OPERATIONS
// =============================================================================

// SaveChatData persists the full chat snapshot.
func (s *LocalStore) SaveChatData(data ChatData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode chat data: %w", err)
	}
	return s.Set(KeyChatData, raw)
}

// LoadChatData retrieves the chat snapshot. A missing or unreadable snapshot
// yields ok=false; the caller starts fresh rather than crashing on old data.
func (s *LocalStore) LoadChatData() (ChatData, bool) {
	raw, ok, err := s.Get(KeyChatData)
	if err != nil || !ok {
		return ChatData{}, false
	}

	var data ChatData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ChatData{}, false
	}
	return data, true
}

// =============================================================================
// SNAPSHOT EXPORT / IMPORT
// =============================================================================

// ExportChatData writes the current chat snapshot to a JSON file.
func (s *LocalStore) ExportChatData(path string) error {
	data, ok := s.LoadChatData()
	if !ok {
		data = ChatData{}
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chat data: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(path, raw, 0644)
}

// ImportChatData replaces the stored chat snapshot with the contents of a
// previously exported JSON file.
func (s *LocalStore) ImportChatData(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var data ChatData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to decode chat data: %w", err)
	}
	return s.SaveChatData(data)
}
