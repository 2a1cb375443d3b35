// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, route payloads, and the
// user's personalization settings.
//
// # Key Types
//
//   - Conversation: Named, id-tagged container for an ordered message list
//   - Message: Single turn authored by user or bot, optionally carrying a route
//   - RoutePayload: Instruction to render a map route instead of plain text
//   - Settings: Age range, gender, and genre preferences sent with each query
//
// # Usage
//
// Create a message and inspect it:
//
//	msg := model.NewUserMessage("推荐一部喜剧")
//	fmt.Println(msg.Role.DisplayName(), msg.Content)
//
// Toggle a genre preference:
//
//	s := model.Settings{}
//	s.ToggleGenre("喜剧")
package model
