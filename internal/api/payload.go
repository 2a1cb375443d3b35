// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the FilmPilot backend.
package api

import (
	"encoding/json"
	"strings"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// maxUnwrapDepth bounds the recursive unwrap of string-encoded JSON.
// The backend has been observed to double-encode; anything deeper is a bug
// upstream and we stop rather than loop.
const maxUnwrapDepth = 5

// =============================================================================
// RESPONSE INTERPRETATION
// =============================================================================

// ParseWorkflowReply interprets a raw workflow response body.
//
// The backend serializes its answer inconsistently: the payload may be a
// JSON object, a JSON string, or a JSON string containing more JSON. The
// body is unwrapped layer by layer; if an object with a truthy map_action
// emerges, the reply is a route directive. Anything else is treated as
// plain text: one layer of surrounding quotes is stripped and literal \n
// sequences become real newlines.
func ParseWorkflowReply(body []byte) *WorkflowReply {
	data := peelStringLayers(body)

	if directive, ok := decodeRouteDirective(data); ok {
		return &WorkflowReply{Route: directive}
	}

	text := strings.TrimPrefix(string(data), `"`)
	text = strings.TrimSuffix(text, `"`)
	text = strings.ReplaceAll(text, `\n`, "\n")
	return &WorkflowReply{Text: text}
}

// peelStringLayers unwraps nested JSON-string encoding until the payload is
// no longer a bare JSON string, up to maxUnwrapDepth layers.
func peelStringLayers(body []byte) []byte {
	data := body
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			break
		}
		data = []byte(inner)
	}
	return data
}

// decodeRouteDirective reports whether the unwrapped payload is a route
// directive with a truthy map_action.
func decodeRouteDirective(data []byte) (*model.RoutePayload, bool) {
	var directive routeDirective
	if err := json.Unmarshal(data, &directive); err != nil {
		return nil, false
	}
	if !directive.MapAction {
		return nil, false
	}

	payload := model.RoutePayload{
		Origin:      directive.Origin,
		Destination: directive.Destination,
		City:        directive.City,
		Mode:        directive.Mode,
	}.WithDefaults()
	return &payload, true
}
