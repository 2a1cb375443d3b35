// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the filmpilot command line interface.
//
// The package provides argument parsing (cli.go, args.go) and the command
// implementations:
//
//   - ask.go:        one-shot question with a streamed or plain reply
//   - chat.go:       line-mode REPL with input history
//   - login.go:      account login and registration
//   - recommend.go:  daily movie picks
//   - config_cmd.go: configuration inspection and editing
//   - export.go:     conversation export and import
//
// The full-screen TUI itself lives in internal/ui; main.go starts it when
// no command is given.
package cli
