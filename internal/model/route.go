// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// ROUTE PAYLOAD
// =============================================================================

// Place identifies a routing endpoint by keyword and city, the addressing
// form the AMap planner accepts.
type Place struct {
	Keyword string `json:"keyword"`
	City    string `json:"city"`
}

// IsValid reports whether the place can be used as a routing endpoint.
func (p *Place) IsValid() bool {
	return p != nil && p.Keyword != ""
}

// RoutePayload is the bundle a route-directive response hands to the map
// embed: endpoints, travel mode, and the keys the AMap SDK requires.
type RoutePayload struct {
	// Origin may be nil, in which case the embed resolves the user's
	// position itself and falls back to the default origin.
	Origin      *Place `json:"origin,omitempty"`
	Destination Place  `json:"destination"`
	City        string `json:"city"`
	Mode        string `json:"mode"`
	JSKey       string `json:"amapjs_key"`
	SecurityKey string `json:"security_key"`
}

// Default AMap web keys, substituted when a route directive omits them.
const (
	DefaultAmapJSKey       = "a64c3600e44f633e2af4fd8b0c8bb5eb"
	DefaultAmapSecurityKey = "57a82ef7ebde5553411673bc0ae7c6b2"
)

// Default routing parameters used when a directive leaves them out.
var (
	DefaultOrigin      = Place{Keyword: "南开大学津南校区", City: "天津"}
	DefaultDestination = Place{Keyword: "金逸影城（大港IMAX店）", City: "天津"}
)

const (
	DefaultCity = "天津"
	DefaultMode = "Driving"
)

// WithDefaults returns a copy of the payload with missing keys, city, and
// mode replaced by the defaults.
func (r RoutePayload) WithDefaults() RoutePayload {
	if r.JSKey == "" {
		r.JSKey = DefaultAmapJSKey
	}
	if r.SecurityKey == "" {
		r.SecurityKey = DefaultAmapSecurityKey
	}
	if r.City == "" {
		r.City = DefaultCity
	}
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	return r
}

// =============================================================================
// COORDINATES
// =============================================================================

// Coordinates is a latitude/longitude pair. The longitude field is named lnt
// on the wire, matching the backend contract.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lnt float64 `json:"lnt"`
}

// FallbackCoordinates is used when geolocation is denied or unavailable.
// It is never surfaced to the user as an error.
var FallbackCoordinates = Coordinates{Lat: 38.988726, Lnt: 117.346194}
