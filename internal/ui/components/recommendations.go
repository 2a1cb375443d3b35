// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filmpilot TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// DAILY RECOMMENDATIONS
// =============================================================================

// cardWidth is the inner width of one movie card.
const cardWidth = 22

// Recommendations renders the daily movie picks as a card row above the
// conversation on a fresh session. Fetch failures leave the bar empty; the
// picks are decoration, not a blocker.
type Recommendations struct {
	theme  *styles.Theme
	movies []api.Movie
	width  int
}

// NewRecommendations creates an empty recommendation bar.
func NewRecommendations(theme *styles.Theme) Recommendations {
	return Recommendations{theme: theme}
}

// SetTheme swaps the styling used for rendering.
func (r *Recommendations) SetTheme(theme *styles.Theme) {
	r.theme = theme
}

// SetWidth updates the available width.
func (r *Recommendations) SetWidth(width int) {
	r.width = width
}

// SetMovies replaces the displayed picks.
func (r *Recommendations) SetMovies(movies []api.Movie) {
	r.movies = movies
}

// HasMovies reports whether there is anything to show.
func (r *Recommendations) HasMovies() bool {
	return len(r.movies) > 0
}

// View renders the card row, fitting as many cards as the width allows.
func (r Recommendations) View() string {
	if len(r.movies) == 0 {
		return ""
	}

	perCard := cardWidth + 4 // borders, padding, margin
	maxCards := len(r.movies)
	if r.width > 0 && r.width/perCard < maxCards {
		maxCards = r.width / perCard
	}
	if maxCards < 1 {
		maxCards = 1
	}

	cards := make([]string, 0, maxCards)
	for _, m := range r.movies[:maxCards] {
		cards = append(cards, r.card(m))
	}

	title := r.theme.SidebarTitle.Render("今日推荐")
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return title + "\n" + row
}

// card renders one movie as a fixed-width card.
func (r Recommendations) card(m api.Movie) string {
	var b strings.Builder
	b.WriteString(r.theme.MovieTitle.Render(PadWidth(m.Title, cardWidth)))
	b.WriteString("\n")

	meta := m.Year
	if m.Rating > 0 {
		if meta != "" {
			meta += " · "
		}
		meta += fmt.Sprintf("%.1f", m.Rating)
	}
	b.WriteString(r.theme.MovieMeta.Render(PadWidth(meta, cardWidth)))

	if m.Tagline != "" {
		b.WriteString("\n")
		b.WriteString(r.theme.MovieMeta.Render(PadWidth(m.Tagline, cardWidth)))
	}

	return r.theme.MovieCard.Render(b.String())
}
