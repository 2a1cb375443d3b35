// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filmpilot TUI.
package components

import (
	"strings"

	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// SINGLE-CHOICE PICKER
// =============================================================================

// Picker is a single-choice selector used for the age range and gender
// panels. Choosing an already-selected option deselects it, matching the
// toggle behavior of the settings panels.
type Picker struct {
	theme   *styles.Theme
	title   string
	options []string

	cursor   int
	selected string
}

// NewPicker creates a picker over a fixed option list.
func NewPicker(theme *styles.Theme, title string, options []string) Picker {
	return Picker{theme: theme, title: title, options: options}
}

// SetTheme swaps the styling used for rendering.
func (p *Picker) SetTheme(theme *styles.Theme) {
	p.theme = theme
}

// SetSelected positions the selection on a persisted value. Unknown values
// leave nothing selected.
func (p *Picker) SetSelected(value string) {
	p.selected = ""
	for i, opt := range p.options {
		if opt == value {
			p.selected = value
			p.cursor = i
			return
		}
	}
}

// Selected returns the chosen option, or "" when none is chosen.
func (p *Picker) Selected() string {
	return p.selected
}

// CursorUp moves the cursor one option up.
func (p *Picker) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// CursorDown moves the cursor one option down.
func (p *Picker) CursorDown() {
	if p.cursor < len(p.options)-1 {
		p.cursor++
	}
}

// Toggle selects the option under the cursor, or clears it when it is
// already selected.
func (p *Picker) Toggle() {
	opt := p.options[p.cursor]
	if p.selected == opt {
		p.selected = ""
		return
	}
	p.selected = opt
}

// View renders the picker panel.
func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(p.theme.SettingsTitle.Render(p.title))
	b.WriteString("\n\n")

	for i, opt := range p.options {
		mark := "( )"
		if opt == p.selected {
			mark = "(o)"
		}
		line := mark + " " + opt

		style := p.theme.SettingsOption
		if i == p.cursor {
			style = p.theme.SettingsOptionFocused
		} else if opt == p.selected {
			style = p.theme.SettingsOptionSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.LoginHint.Render("Enter 选择 · Esc 关闭"))
	return p.theme.SettingsBox.Render(b.String())
}

// =============================================================================
// MULTI-CHOICE PICKER
// =============================================================================

// MultiPicker is a multi-choice selector used for the movie genre panel.
type MultiPicker struct {
	theme   *styles.Theme
	title   string
	options []string

	cursor   int
	selected map[string]bool
}

// NewMultiPicker creates a multi-picker over a fixed option list.
func NewMultiPicker(theme *styles.Theme, title string, options []string) MultiPicker {
	return MultiPicker{
		theme:    theme,
		title:    title,
		options:  options,
		selected: make(map[string]bool),
	}
}

// SetTheme swaps the styling used for rendering.
func (p *MultiPicker) SetTheme(theme *styles.Theme) {
	p.theme = theme
}

// SetSelected replaces the selection with persisted values. Values outside
// the option list are dropped.
func (p *MultiPicker) SetSelected(values []string) {
	p.selected = make(map[string]bool)
	for _, v := range values {
		for _, opt := range p.options {
			if opt == v {
				p.selected[v] = true
				break
			}
		}
	}
}

// Selected returns the chosen options in option-list order.
func (p *MultiPicker) Selected() []string {
	out := make([]string, 0, len(p.selected))
	for _, opt := range p.options {
		if p.selected[opt] {
			out = append(out, opt)
		}
	}
	return out
}

// CursorUp moves the cursor one option up.
func (p *MultiPicker) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// CursorDown moves the cursor one option down.
func (p *MultiPicker) CursorDown() {
	if p.cursor < len(p.options)-1 {
		p.cursor++
	}
}

// Toggle flips the option under the cursor.
func (p *MultiPicker) Toggle() {
	opt := p.options[p.cursor]
	if p.selected[opt] {
		delete(p.selected, opt)
		return
	}
	p.selected[opt] = true
}

// View renders the multi-picker panel.
func (p MultiPicker) View() string {
	var b strings.Builder
	b.WriteString(p.theme.SettingsTitle.Render(p.title))
	b.WriteString("\n\n")

	for i, opt := range p.options {
		mark := "[ ]"
		if p.selected[opt] {
			mark = "[x]"
		}
		line := mark + " " + opt

		style := p.theme.SettingsOption
		if i == p.cursor {
			style = p.theme.SettingsOptionFocused
		} else if p.selected[opt] {
			style = p.theme.SettingsOptionSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.LoginHint.Render("Enter 切换 · Esc 关闭"))
	return p.theme.SettingsBox.Render(b.String())
}
