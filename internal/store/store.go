// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the in-memory conversation store.
//
// The store owns every conversation record: creation, renaming, deletion,
// selection, and message appends all go through it. Conversation ids are
// numeric and monotonically increasing for the lifetime of the store;
// display names are user-renameable map keys.
package store

import (
	"log"
	"sort"
	"strconv"
	"sync"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore maps conversation names to records and tracks the active
// conversation. All mutations are serialized by an internal mutex so the
// store can be shared between the TUI event loop and CLI handlers.
type ConversationStore struct {
	mu sync.Mutex

	conversations map[string]*model.Conversation
	active        string // empty = no active conversation (initial state)
	nextID        int    // next numeric id to assign, starts at 1
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*model.Conversation),
		nextID:        1,
	}
}

// =============================================================================
// CREATE
// =============================================================================

// Create makes a new conversation, assigns the next unused numeric id, and
// makes it the active conversation. The display name derives from the
// current conversation count; if that name is already taken (a rename can
// free or occupy any name), the count is bumped until a free name is found.
func (s *ConversationStore) Create() (name string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = s.nextID
	s.nextID++

	n := len(s.conversations) + 1
	name = conversationName(n)
	for _, taken := s.conversations[name]; taken; _, taken = s.conversations[name] {
		n++
		name = conversationName(n)
	}

	s.conversations[name] = model.NewConversation(name, id)
	s.active = name
	return name, id
}

func conversationName(n int) string {
	return "对话 " + strconv.Itoa(n)
}

// =============================================================================
// APPEND
// =============================================================================

// Append adds a message to the named conversation and refreshes its
// last-activity timestamp. If the conversation no longer exists (deleted
// while a reply was in flight) the append is dropped with a log line.
func (s *ConversationStore) Append(name string, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[name]
	if !ok {
		log.Printf("store: dropping message for deleted conversation %q", name)
		return
	}
	conv.Append(msg)
}

// =============================================================================
// RENAME
// =============================================================================

// Rename moves a conversation to a new name, preserving its id and messages.
// A blank new name is a no-op, as is renaming a conversation that does not
// exist. If the renamed conversation was active, the active pointer follows.
// Renaming onto an existing name replaces it (last writer wins).
func (s *ConversationStore) Rename(oldName, newName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newName == "" || newName == oldName {
		return false
	}
	conv, ok := s.conversations[oldName]
	if !ok {
		return false
	}

	delete(s.conversations, oldName)
	conv.Name = newName
	s.conversations[newName] = conv
	if s.active == oldName {
		s.active = newName
	}
	return true
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a conversation. If it was active, the most-recently-created
// remaining conversation becomes active; with none left the store returns to
// the empty initial state.
func (s *ConversationStore) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[name]; !ok {
		return false
	}
	delete(s.conversations, name)

	if s.active != name {
		return true
	}
	s.active = ""
	var newest *model.Conversation
	for _, conv := range s.conversations {
		if newest == nil || conv.ID > newest.ID {
			newest = conv
		}
	}
	if newest != nil {
		s.active = newest.Name
	}
	return true
}

// =============================================================================
// SELECTION
// =============================================================================

// Select makes the named conversation active. Returns false when it does
// not exist, leaving the current selection untouched.
func (s *ConversationStore) Select(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[name]; !ok {
		return false
	}
	s.active = name
	return true
}

// Deselect clears the active pointer, returning to the initial state without
// deleting anything. Used by the "new conversation" sidebar action.
func (s *ConversationStore) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ""
}

// Active returns a copy of the active conversation, or nil if none.
func (s *ConversationStore) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[s.active]
	if !ok {
		return nil
	}
	return conv.Clone()
}

// ActiveName returns the active conversation's name, or "" if none.
func (s *ConversationStore) ActiveName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ID returns the numeric id of the named conversation. The ok result is
// false when the conversation does not exist.
func (s *ConversationStore) ID(name string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[name]
	if !ok {
		return 0, false
	}
	return conv.ID, true
}

// Get returns a copy of the named conversation.
func (s *ConversationStore) Get(name string) (*model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[name]
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// Len returns the number of conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// =============================================================================
// LIST
// =============================================================================

// List returns copies of all conversations ordered by descending creation
// time (most recent first). This ordering is a hard contract for the
// sidebar. Ids break ties since they follow creation order exactly.
func (s *ConversationStore) List() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// =============================================================================
// SNAPSHOT / RESTORE
// =============================================================================

// Snapshot captures the full store state for persistence.
type Snapshot struct {
	Conversations map[string]*model.Conversation `json:"conversations"`
	CurrentConv   string                         `json:"currentConv"`
}

// Snapshot returns a deep copy of the store state.
func (s *ConversationStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Conversations: make(map[string]*model.Conversation, len(s.conversations)),
		CurrentConv:   s.active,
	}
	for name, conv := range s.conversations {
		snap.Conversations[name] = conv.Clone()
	}
	return snap
}

// Restore replaces the store state from a snapshot. The id counter resumes
// above the highest restored id so new conversations stay unique and
// monotonic. Records with a missing name key or a zero id are repaired from
// their map key and the counter, upholding the non-null id invariant.
func (s *ConversationStore) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*model.Conversation, len(snap.Conversations))
	maxID := 0
	for name, conv := range snap.Conversations {
		if conv == nil {
			continue
		}
		c := conv.Clone()
		c.Name = name
		s.conversations[name] = c
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	for _, conv := range s.conversations {
		if conv.ID == 0 {
			maxID++
			conv.ID = maxID
		}
	}
	s.nextID = maxID + 1

	s.active = ""
	if _, ok := s.conversations[snap.CurrentConv]; ok {
		s.active = snap.CurrentConv
	}
}
