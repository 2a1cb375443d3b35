// filmpilot - A terminal client for movie recommendation chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/filmpilot/filmpilot-tui/internal/amap"
	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/auth"
	"github.com/filmpilot/filmpilot-tui/internal/cli"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/geo"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/store"
	"github.com/filmpilot/filmpilot-tui/internal/stream"
	"github.com/filmpilot/filmpilot-tui/internal/ui/chat"
	"github.com/filmpilot/filmpilot-tui/internal/ui/login"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so the route panel can push updates
// into the running Bubble Tea event loop from its own goroutine.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdLogin:
		cli.HandleLogin(args, false)
	case cli.CmdRegister:
		cli.HandleLogin(args, true)
	case cli.CmdRecommend:
		cli.HandleRecommend(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdExport:
		cli.HandleExport(args, false)
	case cli.CmdImport:
		cli.HandleExport(args, true)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// runTUI wires the full-screen chat interface and runs it.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	if args.BaseURL != "" {
		cfg.Backend.BaseURL = args.BaseURL
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	})

	mapClient := amap.NewClientWithConfig(&amap.ClientConfig{
		Key:          cfg.Amap.Key,
		ReadyTimeout: time.Duration(cfg.Amap.ReadyTimeoutSecs) * time.Second,
	})
	panel := amap.NewPanel(mapClient, func() {
		programMu.Lock()
		defer programMu.Unlock()
		if programRef != nil {
			programRef.Send(chat.RouteUpdatedMsg{})
		}
	})

	local := openLocalStore(cfg)
	if local != nil {
		defer local.Close()
	}

	sim := stream.NewSimulatorWithInterval(time.Duration(cfg.UI.StreamIntervalMs) * time.Millisecond)
	resolver := geo.NewResolver(mapClient.LocateIP)
	ctrl := session.New(store.NewConversationStore(), sim, client, resolver, local)

	themeName := pickTheme(args, cfg, local)
	theme := styles.New(themeName)

	if local != nil && local.UserID() == "" {
		if !runLogin(theme, client, cfg, local) {
			return
		}
	}

	m := chat.New(theme, ctrl, client, panel, local, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Live config reload; edits to config.toml restyle the running TUI.
	if cfgPath, err := config.Path(); err == nil {
		watcher, werr := config.NewWatcher(cfgPath, func(next *config.Config) {
			programMu.Lock()
			defer programMu.Unlock()
			if programRef != nil {
				programRef.Send(chat.ConfigReloadedMsg{Config: next})
			}
		})
		if werr == nil {
			if werr = watcher.Watch(); werr == nil {
				defer watcher.Close()
			} else {
				watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}

	programMu.Lock()
	programRef = nil
	programMu.Unlock()
}

// openLocalStore opens the local database; the TUI degrades to
// in-memory state when it is unavailable.
func openLocalStore(cfg *config.Config) *storage.LocalStore {
	path := cfg.Storage.DatabasePath
	if path == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "警告: 无法定位本地数据库: %v\n", err)
			return nil
		}
		path = p
	}
	local, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 本地数据库打开失败，对话将不会保存: %v\n", err)
		return nil
	}
	return local
}

// pickTheme resolves the active theme name. A --theme flag wins,
// then the persisted preference, then the config file.
func pickTheme(args cli.Args, cfg *config.Config, local *storage.LocalStore) string {
	if args.Theme != "" {
		return args.Theme
	}
	if local != nil {
		if name := local.Theme(); name != "" {
			return name
		}
	}
	return cfg.UI.Theme
}

// runLogin shows the login screen and reports whether a session
// was established. The user can back out with Esc.
func runLogin(theme *styles.Theme, client *api.Client, cfg *config.Config, local *storage.LocalStore) bool {
	vault := openVault(cfg)

	lm := login.New(theme, client, vault, local)
	final, err := tea.NewProgram(lm, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "登录界面启动失败: %v\n", err)
		return false
	}
	result, ok := final.(login.Model)
	return ok && result.Authenticated()
}

func openVault(cfg *config.Config) *auth.Vault {
	path := cfg.Storage.VaultPath
	if path == "" {
		p, err := auth.DefaultVaultPath()
		if err != nil {
			return nil
		}
		path = p
	}
	vault, err := auth.NewVault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 凭据保险箱不可用: %v\n", err)
		return nil
	}
	return vault
}
