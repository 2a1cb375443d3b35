// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream simulates token streaming for finalized bot replies.
//
// The backend returns complete responses; the Simulator reveals them one
// rune per tick so the interface feels live. The first rune is shown
// immediately on Start so there is no blank flash before the first tick.
// A stream is restartable (starting a new one supersedes the old) and safe
// to abandon: ticks from a superseded or cancelled stream are ignored.
package stream

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the cadence of the reveal timer: one rune per tick.
const DefaultInterval = 40 * time.Millisecond

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator reveals a finalized string rune by rune.
//
// Thread-safety: ticks arrive from a timer while Start/Cancel come from the
// event loop, so all state is mutex-guarded. Each Start bumps a generation
// counter; ticks carrying a stale generation are dropped, which makes
// restarts and teardown races harmless.
type Simulator struct {
	mu sync.Mutex

	runes    []rune
	pos      int
	target   string // conversation the finished message belongs to
	gen      uint64
	active   bool
	interval time.Duration
}

// NewSimulator creates a simulator with the default reveal cadence.
func NewSimulator() *Simulator {
	return &Simulator{interval: DefaultInterval}
}

// NewSimulatorWithInterval creates a simulator with a custom cadence.
func NewSimulatorWithInterval(interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{interval: interval}
}

// Interval returns the reveal cadence.
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// =============================================================================
// STREAM LIFECYCLE
// =============================================================================

// Start begins revealing text destined for the named conversation and
// returns the generation token for this stream plus the initially visible
// prefix (the first rune, revealed before any tick). Starting while a
// previous stream is running supersedes it: the old stream's pending ticks
// become no-ops.
func (s *Simulator) Start(text, conversationName string) (gen uint64, visible string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.runes = []rune(text)
	s.target = conversationName
	s.pos = 0
	s.active = len(s.runes) > 0

	if s.active {
		s.pos = 1 // first rune visible immediately
	}
	return s.gen, string(s.runes[:s.pos])
}

// Tick advances the stream by one rune. It returns the currently visible
// prefix and whether the stream just finished. Ticks for a stale generation
// or an inactive simulator return done=false with an empty string and must
// not be acted upon (ok=false).
func (s *Simulator) Tick(gen uint64) (visible string, done, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || gen != s.gen {
		return "", false, false
	}
	if s.pos < len(s.runes) {
		s.pos++
	}
	visible = string(s.runes[:s.pos])
	done = s.pos >= len(s.runes)
	return visible, done, true
}

// Finish commits the stream: it returns the full text and the conversation
// it belongs to, and clears the transient buffer. Call exactly once after
// Tick reports done.
func (s *Simulator) Finish(gen uint64) (text, conversationName string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || gen != s.gen {
		return "", "", false
	}
	text = string(s.runes)
	conversationName = s.target
	s.reset()
	return text, conversationName, true
}

// Cancel abandons the current stream, if any. Pending ticks become no-ops.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.reset()
}

// Generation returns the token of the most recent stream.
func (s *Simulator) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Streaming reports whether a stream is in progress.
func (s *Simulator) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Visible returns the currently revealed prefix.
func (s *Simulator) Visible() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ""
	}
	return string(s.runes[:s.pos])
}

// reset clears stream state. Caller must hold the lock.
func (s *Simulator) reset() {
	s.runes = nil
	s.pos = 0
	s.target = ""
	s.active = false
}

// =============================================================================
// CHANNEL PRODUCER
// =============================================================================

// Reveal streams the text's cumulative prefixes over a channel at the given
// cadence, one rune per step with the first prefix sent immediately. The
// channel closes when the text is exhausted or ctx is cancelled. Used by the
// CLI REPL, where no timer-message loop exists.
func Reveal(ctx context.Context, text string, interval time.Duration) <-chan string {
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := make(chan string)

	go func() {
		defer close(out)
		runes := []rune(text)
		if len(runes) == 0 {
			return
		}

		// First rune goes out without waiting for the ticker.
		select {
		case out <- string(runes[:1]):
		case <-ctx.Done():
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 2; i <= len(runes); i++ {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
			select {
			case out <- string(runes[:i]):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
