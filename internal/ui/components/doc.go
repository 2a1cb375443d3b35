// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides UI components for the filmpilot TUI.

Components are self-contained building blocks composed by the chat view:

  - Sidebar        - conversation list with rename and delete
  - StatusBar      - session state plus keyboard shortcuts
  - Spinner        - thinking indicator shown while waiting on the backend
  - Picker         - single-choice selector (age range, gender)
  - MultiPicker    - multi-choice selector (movie genres)
  - LocationPrompt - one-time location permission dialog
  - Recommendations - daily movie picks rendered as cards

All width math goes through go-runewidth so Chinese titles and previews
truncate on display columns, not runes.
*/
package components
