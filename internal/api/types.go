// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the FilmPilot backend.
package api

import (
	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// WORKFLOW TYPES
// =============================================================================

// WorkflowRequest is the body of POST /api/workflow. Field names match the
// backend contract exactly; lnt (not lng) is the longitude key.
type WorkflowRequest struct {
	CurrentInput     string   `json:"currentInput"`
	AgeRange         string   `json:"ageRange"`
	Gender           string   `json:"gender"`
	MoviePreferences []string `json:"moviePreferences"`
	Lat              float64  `json:"lat"`
	Lnt              float64  `json:"lnt"`
	ConversationID   int      `json:"conversation_id"`
}

// WorkflowReply is the interpreted backend response: either a route
// directive (Route non-nil) or plain text.
type WorkflowReply struct {
	Route *model.RoutePayload
	Text  string
}

// IsRoute reports whether the reply is a route directive.
func (r *WorkflowReply) IsRoute() bool {
	return r.Route != nil
}

// routeDirective is the wire shape of a map-route response.
type routeDirective struct {
	MapAction   bool         `json:"map_action"`
	Origin      *model.Place `json:"origin"`
	Destination model.Place  `json:"destination"`
	City        string       `json:"city"`
	Mode        string       `json:"mode"`
}

// =============================================================================
// DAILY RECOMMENDATION TYPES
// =============================================================================

// Movie is one item of GET /api/daily_recommendations.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Tagline     string  `json:"tagline,omitempty"`
	Director    string  `json:"director,omitempty"`
	Country     string  `json:"country,omitempty"`
	Description string  `json:"description,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
}

// =============================================================================
// AUTH TYPES
// =============================================================================

// authRequest is the shared body of /api/login and /api/register.
type authRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginResult is the decoded /api/login response.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
