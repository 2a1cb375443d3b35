// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds one chat thread: a user-renameable display name, an
// immutable numeric id assigned at creation, and an append-only message list.
type Conversation struct {
	// Identity. Name is the map key in the store and may change on rename;
	// ID is assigned once and is monotonically increasing across a session.
	Name string `json:"name"`
	ID   int    `json:"conversation_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// NewConversation creates a conversation with the given name and id.
func NewConversation(name string, id int) *Conversation {
	now := time.Now()
	return &Conversation{
		Name:      name,
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// Append adds a message and refreshes the last-activity timestamp.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Preview returns a short sidebar preview: the tail message truncated, or a
// placeholder for an empty conversation.
func (c *Conversation) Preview() string {
	last, ok := c.LastMessage()
	if !ok {
		return "新对话"
	}
	return last.Preview(25)
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clone creates a deep copy of the conversation. Messages are value types,
// but route payloads are pointers and are copied as well.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		Name:      c.Name,
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		if msg.Route != nil {
			route := *msg.Route
			msg.Route = &route
		}
		clone.Messages[i] = msg
	}
	return clone
}
