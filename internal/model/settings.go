// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// SETTINGS ENUMERATIONS
// =============================================================================

// AgeRanges is the fixed set of selectable age ranges.
var AgeRanges = []string{"18岁以下", "18-25", "26-35", "36-45", "45岁以上"}

// Genders is the fixed set of selectable genders.
var Genders = []string{"女", "男"}

// MovieGenres is the fixed set of selectable genre tags.
var MovieGenres = []string{"剧情", "喜剧", "动作", "科幻", "爱情", "悬疑", "恐怖", "动画", "纪录片", "音乐剧"}

// =============================================================================
// SETTINGS TYPE
// =============================================================================

// Settings holds the user's personalization choices. AgeRange and Gender are
// one of the fixed enumerations or empty; Genres is a duplicate-free subset
// of MovieGenres. Settings travel with every backend request.
type Settings struct {
	AgeRange string   `json:"ageRange"`
	Gender   string   `json:"gender"`
	Genres   []string `json:"moviePrefs"`
}

// HasGenre reports whether the genre is currently selected.
func (s *Settings) HasGenre(genre string) bool {
	for _, g := range s.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// ToggleGenre flips membership of the genre in the selected set.
func (s *Settings) ToggleGenre(genre string) {
	for i, g := range s.Genres {
		if g == genre {
			s.Genres = append(s.Genres[:i], s.Genres[i+1:]...)
			return
		}
	}
	s.Genres = append(s.Genres, genre)
}

// SetAgeRange selects an age range. Values outside the enumeration are
// ignored; the empty string clears the selection.
func (s *Settings) SetAgeRange(r string) {
	if r == "" || contains(AgeRanges, r) {
		s.AgeRange = r
	}
}

// SetGender selects a gender. Values outside the enumeration are ignored;
// the empty string clears the selection.
func (s *Settings) SetGender(g string) {
	if g == "" || contains(Genders, g) {
		s.Gender = g
	}
}

// Clone returns a copy with an independent genre slice.
func (s Settings) Clone() Settings {
	out := s
	out.Genres = append([]string(nil), s.Genres...)
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
