// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Conversation export and import for the filmpilot CLI.
package cli

import (
	"fmt"
)

// HandleExportCommand writes all conversations to, or restores them from,
// a JSON file.
func HandleExportCommand(args Args, importing bool) error {
	action := "export"
	if importing {
		action = "import"
	}
	if args.File == "" {
		return &UsageError{Command: action, Message: "file path is required, e.g. filmpilot " + action + " chats.json"}
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	local, err := OpenLocalStore(cfg)
	if err != nil {
		return &CommandError{Command: action, Action: "open", Reason: "cannot open local store", Err: err}
	}
	defer local.Close()

	if importing {
		if err := local.ImportChatData(args.File); err != nil {
			return &CommandError{Command: "import", Action: "read", Reason: "cannot import chat data", Err: err}
		}
		fmt.Printf("已从 %s 导入对话\n", args.File)
		return nil
	}

	if err := local.ExportChatData(args.File); err != nil {
		return &CommandError{Command: "export", Action: "write", Reason: "cannot export chat data", Err: err}
	}
	fmt.Printf("已导出对话到 %s\n", args.File)
	return nil
}
