// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main Bubble Tea view for the filmpilot TUI.

The Model composes the session controller with the UI components: a
sidebar listing conversations, a viewport showing the active thread, a
text input, a status bar, and overlay panels for settings, location
permission, and help.

# Message flow

A submitted line goes through the controller's turn state machine. The
view only ever reacts to messages:

	submit        -> session.Controller.Submit
	SubmitReady   -> sendCmd fires the backend request off-thread
	ExchangeMsg   -> Controller.Apply commits the reply
	AppliedStream -> streamTickCmd drives the typewriter reveal
	AppliedRoute  -> amap.Panel.SetRoute plans the route asynchronously
	RouteUpdatedMsg -> re-render the route panel

The first submit of a session detours through the location permission
prompt; the resolved coordinates are cached for the rest of the session.

All blocking work (backend calls, geolocation, route planning) happens in
tea.Cmd closures or in the route panel's own goroutines, never in Update.
*/
package chat
