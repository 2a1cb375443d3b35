// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for FilmPilot TUI.
//
// State lives in a single SQLite key-value table: UI preferences (theme,
// input draft), the signed-in user id, sealed credentials, and a JSON
// snapshot of all conversations plus settings.
//
// # Key Types
//
//   - LocalStore: the open database handle and all accessors
//   - ChatData: the snapshot record (conversations, active name, settings)
//
// # Usage
//
// Open the store and restore the last session:
//
//	local, err := storage.Open(path)
//	data, ok := local.LoadChatData()
//
// Export and import conversations as JSON:
//
//	err := local.ExportChatData("chats.json")
//	err = local.ImportChatData("chats.json")
//
// # Storage Location
//
// The database defaults to ~/.filmpilot/local.db.
package storage
