// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates one chat turn from input to committed reply.
package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/geo"
	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/store"
	"github.com/filmpilot/filmpilot-tui/internal/stream"
)

// =============================================================================
// STATES
// =============================================================================

// State is the controller's position in one turn.
type State int

const (
	// StateIdle means no turn is in progress.
	StateIdle State = iota
	// StateAwaitingPermission means the first submit is waiting on the
	// location prompt.
	StateAwaitingPermission
	// StateSending means the backend request is in flight.
	StateSending
	// StateStreaming means a text reply is being revealed.
	StateStreaming
	// StateRouting means a route reply is being planned and rendered.
	StateRouting
	// StateError means the last turn failed; the next submit starts clean.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPermission:
		return "awaiting-permission"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateRouting:
		return "routing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// OUTCOMES
// =============================================================================

// SubmitOutcome tells the caller what a submit needs next.
type SubmitOutcome int

const (
	// SubmitRejected means the input was empty after trimming.
	SubmitRejected SubmitOutcome = iota
	// SubmitNeedPermission means the location prompt must be answered first.
	SubmitNeedPermission
	// SubmitReady means a request is staged; call Send.
	SubmitReady
)

// ApplyResult tells the caller how an exchange was applied.
type ApplyResult int

const (
	// AppliedStream means a text reply started streaming.
	AppliedStream ApplyResult = iota
	// AppliedRoute means a route message was committed; plan and render it.
	AppliedRoute
	// AppliedError means the apology message was committed.
	AppliedError
	// AppliedDirect means a superseded reply was committed without streaming.
	AppliedDirect
	// Discarded means the reply's conversation no longer exists.
	Discarded
)

// =============================================================================
// WORKFLOW CLIENT
// =============================================================================

// WorkflowClient is the backend surface the controller needs.
type WorkflowClient interface {
	Workflow(ctx context.Context, req api.WorkflowRequest) (*api.WorkflowReply, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// stagedRequest is one submit waiting to be (or already) sent.
type stagedRequest struct {
	id   uuid.UUID
	conv string
	req  api.WorkflowRequest
}

// Exchange is the result of one backend round-trip, tagged so stale
// responses can be told apart from the current one.
type Exchange struct {
	ID           uuid.UUID
	Conversation string
	Reply        *api.WorkflowReply
	Err          error
}

// Controller drives the chat turn state machine:
// idle → awaiting-permission (first turn only) → sending →
// {streaming | routing | error} → idle.
//
// Exactly one backend request is issued per accepted submit, and failures
// are never retried. It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	store    *store.ConversationStore
	stream   *stream.Simulator
	client   WorkflowClient
	resolver *geo.Resolver
	local    *storage.LocalStore // nil disables persistence

	state    State
	settings model.Settings

	staged      *stagedRequest
	pendingText string // held while awaiting the permission answer
}

// New creates a controller. local may be nil to run without persistence.
func New(cs *store.ConversationStore, sim *stream.Simulator, client WorkflowClient, resolver *geo.Resolver, local *storage.LocalStore) *Controller {
	c := &Controller{
		store:    cs,
		stream:   sim,
		client:   client,
		resolver: resolver,
		local:    local,
		state:    StateIdle,
	}
	c.restore()
	return c
}

// restore loads the persisted snapshot and settings, if any.
func (c *Controller) restore() {
	if c.local == nil {
		return
	}
	if data, ok := c.local.LoadChatData(); ok {
		c.store.Restore(data.Snapshot)
		c.settings = data.Settings
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Store exposes the conversation store for read paths (sidebar, history).
func (c *Controller) Store() *store.ConversationStore {
	return c.store
}

// Stream exposes the simulator for the tick loop.
func (c *Controller) Stream() *stream.Simulator {
	return c.stream
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings returns the current recommendation settings.
func (c *Controller) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// SetSettings replaces the settings and persists the snapshot.
func (c *Controller) SetSettings(s model.Settings) {
	c.mu.Lock()
	c.settings = s.Clone()
	c.mu.Unlock()
	c.save()
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// NewConversation creates and activates a conversation, then persists.
func (c *Controller) NewConversation() (string, int) {
	name, id := c.store.Create()
	c.save()
	return name, id
}

// RenameConversation renames a conversation, then persists on success.
func (c *Controller) RenameConversation(oldName, newName string) bool {
	ok := c.store.Rename(oldName, newName)
	if ok {
		c.save()
	}
	return ok
}

// DeleteConversation deletes a conversation, then persists.
func (c *Controller) DeleteConversation(name string) {
	c.store.Delete(name)
	c.save()
}

// SelectConversation activates a conversation, then persists the pointer.
func (c *Controller) SelectConversation(name string) bool {
	ok := c.store.Select(name)
	if ok {
		c.save()
	}
	return ok
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit accepts one user turn. Empty input (after trimming) is rejected.
// The first accepted submit of a session pauses for the location prompt;
// every later one stages the request immediately.
func (c *Controller) Submit(text string) SubmitOutcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return SubmitRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolver.NeedsPermission() {
		c.pendingText = text
		c.state = StateAwaitingPermission
		return SubmitNeedPermission
	}

	c.stageLocked(text)
	return SubmitReady
}

// ResolvePermission records the location prompt answer and stages the held
// submit. The decision is cached; the prompt never reopens this session.
func (c *Controller) ResolvePermission(ctx context.Context, granted bool) SubmitOutcome {
	if granted {
		c.resolver.Grant(ctx)
	} else {
		c.resolver.Deny()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingText == "" {
		c.state = StateIdle
		return SubmitRejected
	}
	text := c.pendingText
	c.pendingText = ""
	c.stageLocked(text)
	return SubmitReady
}

// stageLocked ensures an active conversation, commits the user message, and
// stages the backend request. Caller holds c.mu.
func (c *Controller) stageLocked(text string) {
	name := c.store.ActiveName()
	if name == "" {
		name, _ = c.store.Create()
	}

	c.store.Append(name, model.NewUserMessage(text))
	c.saveLocked()

	coords := c.resolver.Coordinates()
	convID, _ := c.store.ID(name)
	c.staged = &stagedRequest{
		id:   uuid.New(),
		conv: name,
		req: api.WorkflowRequest{
			CurrentInput:     text,
			AgeRange:         c.settings.AgeRange,
			Gender:           c.settings.Gender,
			MoviePreferences: c.settings.Genres,
			Lat:              coords.Lat,
			Lnt:              coords.Lnt,
			ConversationID:   convID,
		},
	}
	c.state = StateSending
}

// =============================================================================
// SEND / APPLY
// =============================================================================

// Send issues the staged request. Run it off the UI loop; feed the returned
// exchange to Apply. Returns nil when nothing is staged.
func (c *Controller) Send(ctx context.Context) *Exchange {
	c.mu.Lock()
	staged := c.staged
	c.mu.Unlock()
	if staged == nil {
		return nil
	}

	reply, err := c.client.Workflow(ctx, staged.req)
	return &Exchange{
		ID:           staged.id,
		Conversation: staged.conv,
		Reply:        reply,
		Err:          err,
	}
}

// Apply folds one completed exchange into the conversation state.
//
// A reply whose conversation was deleted mid-flight is discarded. A reply
// superseded by a newer submit is committed directly, without streaming and
// without re-activating its conversation. The current reply transitions the
// machine to streaming, routing, or error.
func (c *Controller) Apply(ex *Exchange) (ApplyResult, *model.RoutePayload) {
	if ex == nil {
		return Discarded, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store.Get(ex.Conversation); !ok {
		log.Printf("session: dropping reply for deleted conversation %q", ex.Conversation)
		return Discarded, nil
	}

	current := c.staged != nil && c.staged.id == ex.ID

	if ex.Err != nil {
		c.store.Append(ex.Conversation, model.NewBotMessage(model.ApologyText))
		c.saveLocked()
		if current {
			c.staged = nil
			c.state = StateError
		}
		return AppliedError, nil
	}

	if ex.Reply.IsRoute() {
		route := *ex.Reply.Route
		c.store.Append(ex.Conversation, model.NewRouteMessage(route))
		c.saveLocked()
		if current {
			c.staged = nil
			c.state = StateRouting
		}
		return AppliedRoute, &route
	}

	if !current {
		// Superseded: commit without a reveal animation.
		c.store.Append(ex.Conversation, model.NewBotMessage(ex.Reply.Text))
		c.saveLocked()
		return AppliedDirect, nil
	}

	c.staged = nil
	c.state = StateStreaming
	c.stream.Start(ex.Reply.Text, ex.Conversation)
	return AppliedStream, nil
}

// =============================================================================
// TURN COMPLETION
// =============================================================================

// FinishStream commits the fully revealed text as one bot message and
// returns to idle. A stale generation is ignored.
func (c *Controller) FinishStream(gen uint64) bool {
	text, conv, ok := c.stream.Finish(gen)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Append(conv, model.NewBotMessage(text))
	c.saveLocked()
	c.state = StateIdle
	return true
}

// FinishRouting marks the route turn complete.
func (c *Controller) FinishRouting() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRouting {
		c.state = StateIdle
	}
}

// CancelStream abandons an in-progress reveal without committing a message.
// Used on teardown and when the user switches conversations mid-stream.
func (c *Controller) CancelStream() {
	c.stream.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStreaming {
		c.state = StateIdle
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// save persists the snapshot at a commit boundary.
func (c *Controller) save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveLocked()
}

// saveLocked persists the snapshot. Caller holds c.mu.
func (c *Controller) saveLocked() {
	if c.local == nil {
		return
	}
	data := storage.ChatData{
		Snapshot: c.store.Snapshot(),
		Settings: c.settings.Clone(),
	}
	if err := c.local.SaveChatData(data); err != nil {
		log.Printf("session: failed to persist snapshot: %v", err)
	}
}
