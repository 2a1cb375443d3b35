// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates one chat turn from input to committed reply.
//
// The Controller owns the turn state machine: a submit is validated,
// the location prompt is answered at most once per session, exactly one
// backend request goes out, and the reply lands as a streamed text message,
// a route message, or the fixed apology. Conversation state and settings
// are persisted at commit boundaries through the local store.
//
// # Key Types
//
//   - Controller: the turn state machine
//   - Exchange: one tagged backend round-trip
//   - State: idle, awaiting-permission, sending, streaming, routing, error
//
// # Usage
//
// Drive one turn:
//
//	switch ctrl.Submit(input) {
//	case session.SubmitNeedPermission:
//	    // show the prompt, then ctrl.ResolvePermission(ctx, answer)
//	case session.SubmitReady:
//	    ex := ctrl.Send(ctx) // off the UI loop
//	    result, route := ctrl.Apply(ex)
//	    ...
//	}
//
// Text replies stream through the simulator; call FinishStream when the
// reveal is done. Route replies hand their payload to the map panel.
package session
