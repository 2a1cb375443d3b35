// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode interactive chat for the filmpilot CLI.
//
// This is the REPL alternative to the full-screen TUI, useful over slow
// links and in terminals where the alternate screen is unwelcome.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/filmpilot/filmpilot-tui/internal/amap"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/geo"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/store"
	"github.com/filmpilot/filmpilot-tui/internal/stream"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// Supports arrow keys for history navigation.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.Dir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChatCommand runs the line-mode chat loop.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	client := NewAPIClient(cfg)
	mapClient := amap.NewClientWithConfig(&amap.ClientConfig{
		Key:          cfg.Amap.Key,
		ReadyTimeout: time.Duration(cfg.Amap.ReadyTimeoutSecs) * time.Second,
	})

	// Missing local storage degrades to an in-memory session.
	local, err := OpenLocalStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 无法打开本地存储，本次会话不会保存: %v\n", err)
		local = nil
	} else {
		defer local.Close()
	}

	sim := stream.NewSimulatorWithInterval(time.Duration(cfg.UI.StreamIntervalMs) * time.Millisecond)
	ctrl := session.New(store.NewConversationStore(), sim, client, geo.NewResolver(mapClient.LocateIP), local)

	repl := NewChatCLI()
	defer repl.Close()

	if !args.Quiet {
		printWelcome(cfg, ctrl)
	}

	for {
		input, err := repl.ReadInput("你: ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println("再见！")
				return nil
			}
			// io.EOF on Ctrl+D ends the session.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := handleSlashCommand(input, ctrl)
			if err != nil {
				fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			}
			if quit {
				fmt.Println("再见！")
				return nil
			}
			continue
		}

		if err := processTurn(repl, cfg, ctrl, input); err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
	}
}

// processTurn runs one user turn through the session state machine.
func processTurn(repl *ChatCLI, cfg *config.Config, ctrl *session.Controller, input string) error {
	outcome := ctrl.Submit(input)

	if outcome == session.SubmitNeedPermission {
		answer, err := repl.ReadInput("是否允许使用您的位置用于路线规划？(y/N) ")
		if err != nil {
			answer = ""
		}
		granted := strings.EqualFold(strings.TrimSpace(answer), "y")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		outcome = ctrl.ResolvePermission(ctx, granted)
		cancel()
	}

	if outcome != session.SubmitReady {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Backend.TimeoutSecs)*time.Second)
	defer cancel()

	ex := ctrl.Send(ctx)
	result, route := ctrl.Apply(ex)

	switch result {
	case session.AppliedStream:
		revealReply(ctrl)
	case session.AppliedRoute:
		if err := printRoute(cfg, *route); err != nil {
			return err
		}
		ctrl.FinishRouting()
	case session.AppliedError:
		fmt.Println("FilmPilot:", lastBotText(ctrl))
	}
	return nil
}

// revealReply drives the typewriter reveal to stdout, then commits.
func revealReply(ctrl *session.Controller) {
	sim := ctrl.Stream()
	gen := sim.Generation()
	interval := sim.Interval()

	fmt.Print("FilmPilot: ")
	prev := 0
	for {
		visible, done, ok := sim.Tick(gen)
		if !ok {
			break
		}
		fmt.Print(visible[prev:])
		prev = len(visible)
		if done {
			break
		}
		time.Sleep(interval)
	}
	fmt.Println()
	ctrl.FinishStream(gen)
}

// lastBotText returns the newest message text in the active conversation.
func lastBotText(ctrl *session.Controller) string {
	conv := ctrl.Store().Active()
	if conv == nil || len(conv.Messages) == 0 {
		return ""
	}
	return conv.Messages[len(conv.Messages)-1].Content
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand executes a REPL slash command. Returns true to quit.
func handleSlashCommand(input string, ctrl *session.Controller) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/new":
		name, _ := ctrl.NewConversation()
		fmt.Printf("已创建并切换到 %s\n", name)
		return false, nil

	case "/list", "/ls":
		items := ctrl.Store().List()
		if len(items) == 0 {
			fmt.Println("暂无对话")
			return false, nil
		}
		active := ctrl.Store().ActiveName()
		for _, conv := range items {
			marker := "  "
			if conv.Name == active {
				marker = "* "
			}
			fmt.Printf("%s%s（%d 条消息）\n", marker, conv.Name, len(conv.Messages))
		}
		return false, nil

	case "/switch", "/sw":
		if len(fields) < 2 {
			return false, &UsageError{Command: "chat", Message: "/switch 需要对话名称"}
		}
		name := strings.Join(fields[1:], " ")
		if !ctrl.SelectConversation(name) {
			return false, fmt.Errorf("对话 %q 不存在", name)
		}
		fmt.Printf("已切换到 %s\n", name)
		return false, nil

	case "/rename":
		if len(fields) < 3 {
			return false, &UsageError{Command: "chat", Message: "/rename 旧名称 新名称"}
		}
		if !ctrl.RenameConversation(fields[1], fields[2]) {
			return false, fmt.Errorf("无法重命名 %q", fields[1])
		}
		fmt.Printf("已重命名为 %s\n", fields[2])
		return false, nil

	case "/delete", "/del":
		if len(fields) < 2 {
			return false, &UsageError{Command: "chat", Message: "/delete 需要对话名称"}
		}
		name := strings.Join(fields[1:], " ")
		ctrl.DeleteConversation(name)
		fmt.Printf("已删除 %s\n", name)
		return false, nil

	case "/help", "/h":
		printChatHelp()
		return false, nil

	default:
		return false, fmt.Errorf("未知命令 %s，输入 /help 查看帮助", cmd)
	}
}

func printWelcome(cfg *config.Config, ctrl *session.Controller) {
	fmt.Println("FilmPilot 对话模式")
	fmt.Printf("后端: %s\n", cfg.Backend.BaseURL)
	if active := ctrl.Store().ActiveName(); active != "" {
		fmt.Printf("当前对话: %s\n", active)
	}
	fmt.Println("输入 /help 查看命令，Ctrl+C 退出")
	fmt.Println()
}

func printChatHelp() {
	fmt.Println("命令:")
	fmt.Println("  /new              新建对话")
	fmt.Println("  /list             列出对话")
	fmt.Println("  /switch 名称      切换对话")
	fmt.Println("  /rename 旧名 新名 重命名对话")
	fmt.Println("  /delete 名称      删除对话")
	fmt.Println("  /quit             退出")
}
