// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo resolves the user's coordinates with a cached consent decision.
//
// The first submit of a session asks for location permission once; the
// answer and the resolved coordinates are cached for the rest of the
// session. Denial or lookup failure falls back to fixed coordinates so a
// recommendation request can always be sent.
package geo

import (
	"context"
	"sync"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// PERMISSION DECISION
// =============================================================================

// Decision is the user's answer to the location permission prompt.
type Decision int

const (
	// DecisionUnknown means the user has not been asked yet.
	DecisionUnknown Decision = iota
	// DecisionGranted means lookups are allowed.
	DecisionGranted
	// DecisionDenied means the fallback coordinates are used.
	DecisionDenied
)

// =============================================================================
// RESOLVER
// =============================================================================

// LocateFunc looks up the user's coordinates, typically via the AMap IP
// location service.
type LocateFunc func(ctx context.Context) (model.Coordinates, error)

// Resolver caches one permission decision and one coordinate lookup per
// session. It is safe for concurrent use.
type Resolver struct {
	mu       sync.Mutex
	locate   LocateFunc
	decision Decision
	coords   model.Coordinates
	resolved bool
}

// NewResolver creates a resolver. A nil locate always falls back.
func NewResolver(locate LocateFunc) *Resolver {
	return &Resolver{locate: locate}
}

// NeedsPermission reports whether the user still has to be asked.
func (r *Resolver) NeedsPermission() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decision == DecisionUnknown
}

// Decision returns the cached permission decision.
func (r *Resolver) Decision() Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decision
}

// Grant records consent and resolves coordinates once. A failed lookup is
// not an error to the caller: the fallback coordinates are cached instead.
func (r *Resolver) Grant(ctx context.Context) model.Coordinates {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decision = DecisionGranted
	if r.resolved {
		return r.coords
	}

	r.coords = model.FallbackCoordinates
	if r.locate != nil {
		if coords, err := r.locate(ctx); err == nil {
			r.coords = coords
		}
	}
	r.resolved = true
	return r.coords
}

// Deny records refusal. Subsequent submits use the fallback coordinates
// without asking again.
func (r *Resolver) Deny() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decision = DecisionDenied
	r.coords = model.FallbackCoordinates
	r.resolved = true
}

// Coordinates returns the cached coordinates, or the fallback if nothing
// has been resolved yet.
func (r *Resolver) Coordinates() model.Coordinates {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.resolved {
		return model.FallbackCoordinates
	}
	return r.coords
}

// Reset clears the cached decision, forcing the next submit to ask again.
// Used when a new session starts.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decision = DecisionUnknown
	r.resolved = false
	r.coords = model.Coordinates{}
}
