// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo resolves the user's coordinates with a cached consent decision.
package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

func TestResolver_AskedOnlyOnce(t *testing.T) {
	calls := 0
	r := NewResolver(func(ctx context.Context) (model.Coordinates, error) {
		calls++
		return model.Coordinates{Lat: 39.1, Lnt: 117.2}, nil
	})

	if !r.NeedsPermission() {
		t.Fatal("fresh resolver should need permission")
	}

	coords := r.Grant(context.Background())
	if coords.Lat != 39.1 {
		t.Errorf("Lat = %f", coords.Lat)
	}

	if r.NeedsPermission() {
		t.Error("permission should be cached after grant")
	}

	// Further grants reuse the cached lookup.
	r.Grant(context.Background())
	r.Grant(context.Background())
	if calls != 1 {
		t.Errorf("locate called %d times, want 1", calls)
	}
}

func TestResolver_DenyUsesFallback(t *testing.T) {
	r := NewResolver(func(ctx context.Context) (model.Coordinates, error) {
		t.Fatal("locate must not be called after deny")
		return model.Coordinates{}, nil
	})

	r.Deny()

	if r.NeedsPermission() {
		t.Error("denial should be cached")
	}
	if r.Decision() != DecisionDenied {
		t.Errorf("Decision = %v", r.Decision())
	}

	coords := r.Coordinates()
	if coords != model.FallbackCoordinates {
		t.Errorf("coords = %+v, want fallback", coords)
	}
}

func TestResolver_LookupFailureFallsBack(t *testing.T) {
	r := NewResolver(func(ctx context.Context) (model.Coordinates, error) {
		return model.Coordinates{}, errors.New("service unavailable")
	})

	coords := r.Grant(context.Background())
	if coords != model.FallbackCoordinates {
		t.Errorf("coords = %+v, want fallback", coords)
	}
}

func TestResolver_NilLocateFallsBack(t *testing.T) {
	r := NewResolver(nil)

	coords := r.Grant(context.Background())
	if coords != model.FallbackCoordinates {
		t.Errorf("coords = %+v, want fallback", coords)
	}
}

func TestResolver_CoordinatesBeforeResolve(t *testing.T) {
	r := NewResolver(nil)

	if r.Coordinates() != model.FallbackCoordinates {
		t.Error("unresolved resolver should report the fallback coordinates")
	}
}

func TestResolver_ResetAsksAgain(t *testing.T) {
	r := NewResolver(nil)
	r.Deny()
	r.Reset()

	if !r.NeedsPermission() {
		t.Error("reset resolver should need permission again")
	}
}
