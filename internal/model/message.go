// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "FilmPilot"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation. A message is immutable
// once appended to a conversation; ordering is append-order and never changes.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Route is set when the bot answered with a map-route directive instead
	// of plain text. Such a message is rendered as a route panel, not text.
	Route *RoutePayload `json:"map_data,omitempty"`
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a bot-authored text message.
func NewBotMessage(content string) Message {
	return Message{
		Role:      RoleBot,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewRouteMessage creates a bot message carrying a route payload.
func NewRouteMessage(route RoutePayload) Message {
	return Message{
		Role:      RoleBot,
		Content:   RoutePlannedText,
		Timestamp: time.Now(),
		Route:     &route,
	}
}

// IsRoute reports whether the message carries a route payload.
func (m Message) IsRoute() bool {
	return m.Route != nil
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle CJK text correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen]) + "..."
}

// RoutePlannedText is the fixed content of a bot message that carries a
// route payload. The payload, not this text, drives rendering.
const RoutePlannedText = "已为您规划路线"

// ApologyText is the fixed bot reply inserted when the backend call fails.
// Failures are never retried automatically.
const ApologyText = "抱歉，发生了一些错误，请稍后再试。"
