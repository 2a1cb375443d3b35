// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Account commands for the filmpilot CLI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/auth"
	"github.com/filmpilot/filmpilot-tui/internal/config"
)

// HandleLoginCommand prompts for credentials and logs in or registers.
func HandleLoginCommand(args Args, register bool) error {
	operation := "login"
	if register {
		operation = "register"
	}
	if err := RequiresTTY(operation); err != nil {
		return err
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewAPIClient(cfg)

	userID, err := readLine("用户名: ")
	if err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &UsageError{Command: operation, Message: "用户名不能为空"}
	}

	password, err := ReadPassword("密码: ")
	if err != nil {
		return err
	}
	if password == "" {
		return &UsageError{Command: operation, Message: "密码不能为空"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if register {
		confirm, err := ReadPassword("确认密码: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return &UsageError{Command: "register", Message: "两次输入的密码不一致"}
		}
		if err := client.Register(ctx, userID, password); err != nil {
			return err
		}
		fmt.Println("注册成功，现在可以使用 filmpilot login 登录")
		return nil
	}

	result, err := client.Login(ctx, userID, password)
	if err != nil {
		return err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "用户名或密码错误"
		}
		return &AuthError{Message: msg}
	}

	persistLogin(cfg, args, userID, password)
	fmt.Printf("登录成功，欢迎 %s\n", userID)
	return nil
}

// persistLogin records the user id and, with --remember, seals the
// credentials for the next start. Persistence failures are warnings only.
func persistLogin(cfg *config.Config, args Args, userID, password string) {
	local, err := OpenLocalStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 无法保存登录状态: %v\n", err)
		return
	}
	defer local.Close()

	_ = local.SetUserID(userID)

	if !args.Remember {
		return
	}

	vaultPath := cfg.Storage.VaultPath
	if vaultPath == "" {
		vaultPath, err = auth.DefaultVaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "警告: 无法确定凭据保存位置: %v\n", err)
			return
		}
	}
	vault, err := auth.NewVault(vaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 无法初始化凭据保险库: %v\n", err)
		return
	}
	blob, err := vault.Seal(auth.Credentials{UserID: userID, Password: password})
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: 无法加密凭据: %v\n", err)
		return
	}
	if err := local.SetCredentials(blob); err != nil {
		fmt.Fprintf(os.Stderr, "警告: 无法保存凭据: %v\n", err)
		return
	}
	fmt.Println("已记住登录凭据")
}

// readLine reads one echoed line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
