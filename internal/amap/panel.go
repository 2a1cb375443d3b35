// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package amap plans routes through the AMap web service API.
package amap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// DefaultDebounce coalesces rapid route changes into one plan request.
const DefaultDebounce = 300 * time.Millisecond

// planTimeout bounds one full plan cycle (geocoding plus direction call).
const planTimeout = 30 * time.Second

// =============================================================================
// ROUTE PANEL
// =============================================================================

// Panel owns the textual route display for one chat screen. Every input
// change clears the previous contents before the new plan runs, so stale
// routes are never shown, and rapid changes are debounced into a single
// request. It is safe for concurrent use.
type Panel struct {
	mu       sync.Mutex
	client   *Client
	delay    time.Duration
	onUpdate func()

	gen      uint64
	timer    *time.Timer
	payload  *model.RoutePayload
	summary  *RouteSummary
	err      error
	planning bool
}

// NewPanel creates a route panel. onUpdate, if non-nil, is invoked whenever
// an asynchronous plan finishes so the caller can repaint.
func NewPanel(client *Client, onUpdate func()) *Panel {
	return &Panel{
		client:   client,
		delay:    DefaultDebounce,
		onUpdate: onUpdate,
	}
}

// SetDebounce overrides the debounce delay. Zero plans immediately.
func (p *Panel) SetDebounce(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delay = d
}

// SetRoute replaces the panel's route. Prior contents are destroyed
// immediately; the plan request fires after the debounce window, and a
// request made mid-debounce supersedes the pending one.
func (p *Panel) SetRoute(payload model.RoutePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	gen := p.gen

	p.payload = &payload
	p.summary = nil
	p.err = nil
	p.planning = true

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() {
		p.plan(gen, payload)
	})
}

// Clear destroys the panel contents and cancels any pending plan.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.payload = nil
	p.summary = nil
	p.err = nil
	p.planning = false
}

// plan runs one route request. Results for superseded generations are dropped.
func (p *Panel) plan(gen uint64, payload model.RoutePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
	defer cancel()

	summary, err := p.client.PlanRoute(ctx, payload)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.summary = summary
	p.err = err
	p.planning = false
	onUpdate := p.onUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
}

// Planning reports whether a plan is pending or in flight.
func (p *Panel) Planning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.planning
}

// Summary returns the current route summary, or nil.
func (p *Panel) Summary() *RouteSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

// Err returns the failure of the last plan, or nil.
func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the panel body as plain text. Styling is the UI's concern.
func (p *Panel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.payload == nil:
		return ""
	case p.planning:
		return "正在规划路线..."
	case p.err != nil:
		return "路线规划失败: " + p.err.Error()
	case p.summary == nil:
		return ""
	}
	return FormatSummary(p.summary)
}

// FormatSummary renders a route summary as the panel body.
func FormatSummary(s *RouteSummary) string {
	var sb strings.Builder

	sb.WriteString("路线规划（" + ModeLabel(s.Mode) + "）\n")
	if s.Origin != "" || s.Destination != "" {
		sb.WriteString(s.Origin + " → " + s.Destination + "\n")
	}
	sb.WriteString(formatDistance(s.Distance) + " · " + formatDuration(s.Duration) + "\n")

	steps := s.Steps
	if len(steps) > 8 {
		steps = steps[:8]
	}
	for i, step := range steps {
		sb.WriteString(strconv.Itoa(i+1) + ". " + step + "\n")
	}
	if len(s.Steps) > 8 {
		sb.WriteString("...\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func formatDistance(meters int) string {
	if meters < 1000 {
		return strconv.Itoa(meters) + " 米"
	}
	return fmt.Sprintf("%.1f 公里", float64(meters)/1000)
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 1 {
		return "不到 1 分钟"
	}
	if minutes < 60 {
		return "约 " + strconv.Itoa(minutes) + " 分钟"
	}
	return fmt.Sprintf("约 %d 小时 %d 分钟", minutes/60, minutes%60)
}
