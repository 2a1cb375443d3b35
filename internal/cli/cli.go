// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for filmpilot.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdRecommend
	CmdConfig
	CmdExport
	CmdImport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet    bool
	Verbose  bool
	NoStream bool   // print replies at once instead of the typewriter reveal
	BaseURL  string // override backend base URL
	Theme    string // override UI theme

	// Command-specific
	Query      string
	File       string // export/import target path
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	Count      int  // recommend: number of picks
	Remember   bool // login: seal credentials for next start

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `filmpilot - 电影推荐对话客户端

FilmPilot talks to a movie recommendation backend and renders the
conversation in your terminal.

It provides:
  - A full-screen chat TUI with conversation history
  - One-shot questions and a line-mode REPL for scripting
  - Route planning for cinema trips through the AMap web API
  - Daily movie picks

Usage:
  filmpilot                    Start TUI (default)
  filmpilot ask "question"     Ask a single question
  filmpilot chat               Line-mode interactive chat
  filmpilot login              Log in and remember the account
  filmpilot register           Create an account
  filmpilot recommend          Print today's movie picks
  filmpilot config [show|set|path]  Configuration
  filmpilot export FILE        Export conversations to a JSON file
  filmpilot import FILE        Import conversations from a JSON file
  filmpilot version            Show version
  filmpilot help               Show this help

Ask Command:
  filmpilot ask "推荐一部科幻片"
    --no-stream                Print the reply at once

Chat Command:
  filmpilot chat               REPL with input history (arrow keys)
    --no-stream                Disable the typewriter reveal
  Slash commands inside chat:
    /new                       Start a new conversation
    /list                      List conversations
    /switch NAME               Switch conversation
    /quit                      Exit

Login Command:
  filmpilot login              Prompt for user id and password
    --remember                 Seal credentials for the next start
  filmpilot register           Prompt and create an account

Recommend Command:
  filmpilot recommend          Print today's picks
    --count N                  Number of picks (default from config)

Config Commands:
  filmpilot config show        Show current configuration
  filmpilot config path        Print the config file path
  filmpilot config set KEY VALUE
                               Set a value and save
  Keys: ui.theme, ui.stream_interval_ms, ui.daily_picks,
        backend.base_url, backend.timeout_secs,
        amap.key, amap.js_key, storage.database_path

Export/Import:
  filmpilot export chats.json  Write all conversations to a file
  filmpilot import chats.json  Replace local conversations from a file

Global Flags:
  -q, --quiet      Minimal output
  -v, --verbose    Debug output
  --base-url URL   Override the backend base URL
  --theme NAME     Override the UI theme (day, night, eye)

Examples:
  filmpilot                              Start the TUI
  filmpilot ask "周末适合看什么电影？"
  filmpilot chat --no-stream
  filmpilot login --remember
  filmpilot recommend --count 3
  filmpilot config set ui.theme night
  filmpilot export ~/filmpilot-backup.json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("filmpilot version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args defaults to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "login":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "register", "signup":
		return CmdRegister, parsedArgs

	case "recommend", "picks", "daily":
		parseRecommendArgs(&parsedArgs, remaining)
		return CmdRecommend, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "export":
		if len(remaining) > 0 {
			parsedArgs.File = remaining[0]
		}
		return CmdExport, parsedArgs

	case "import":
		if len(remaining) > 0 {
			parsedArgs.File = remaining[0]
		}
		return CmdImport, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command is treated as a question for ask.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsedArgs, parsedArgs.Raw)
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--no-stream":
			parsedArgs.NoStream = true
		case "--base-url":
			if i+1 < len(args) {
				i++
				parsedArgs.BaseURL = args[i]
			}
		case "--theme":
			if i+1 < len(args) {
				i++
				parsedArgs.Theme = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--base-url="):
				parsedArgs.BaseURL = strings.TrimPrefix(arg, "--base-url=")
			case strings.HasPrefix(arg, "--theme="):
				parsedArgs.Theme = strings.TrimPrefix(arg, "--theme=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--no-stream":
			args.NoStream = true
		case strings.HasPrefix(arg, "-"):
			// Unknown flags are ignored rather than swallowed into the query.
		default:
			query = append(query, arg)
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if arg == "--no-stream" {
			args.NoStream = true
		}
	}
}

// parseLoginArgs parses login command specific arguments.
func parseLoginArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if arg == "--remember" || arg == "-r" {
			args.Remember = true
		}
	}
}

// parseRecommendArgs parses recommend command specific arguments.
func parseRecommendArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Count = parser.FlagIntOrDefault("count", 0)
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleLogin handles the "login" and "register" commands.
func HandleLogin(args Args, register bool) {
	if err := HandleLoginCommand(args, register); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleRecommend handles the "recommend" command.
func HandleRecommend(args Args) {
	if err := HandleRecommendCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleExport handles the "export" and "import" commands.
func HandleExport(args Args, importing bool) {
	if err := HandleExportCommand(args, importing); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
