// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the filmpilot CLI.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/amap"
	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// HandleAskCommand sends one question to the backend and prints the reply.
// Location permission is never prompted here; the fallback coordinates
// apply, matching a denied prompt.
func HandleAskCommand(args Args) error {
	if args.Query == "" {
		return &UsageError{Command: "ask", Message: "question is required, e.g. filmpilot ask \"推荐一部科幻片\""}
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewAPIClient(cfg)

	settings := loadSettings(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Backend.TimeoutSecs)*time.Second)
	defer cancel()

	reply, err := client.Workflow(ctx, api.WorkflowRequest{
		CurrentInput:     args.Query,
		AgeRange:         settings.AgeRange,
		Gender:           settings.Gender,
		MoviePreferences: settings.Genres,
		Lat:              model.FallbackCoordinates.Lat,
		Lnt:              model.FallbackCoordinates.Lnt,
	})
	if err != nil {
		return err
	}

	if reply.IsRoute() {
		return printRoute(cfg, *reply.Route)
	}

	PrintReply(reply.Text, args.NoStream, time.Duration(cfg.UI.StreamIntervalMs)*time.Millisecond)
	return nil
}

// loadSettings reads persisted recommendation settings, best effort. A
// missing or unreadable store just means empty settings.
func loadSettings(cfg *config.Config) model.Settings {
	local, err := OpenLocalStore(cfg)
	if err != nil {
		return model.Settings{}
	}
	defer local.Close()

	data, ok := local.LoadChatData()
	if !ok {
		return model.Settings{}
	}
	return data.Settings
}

// printRoute plans the route through the AMap web service and prints the
// summary. A failed plan still names the destination; it is not an error.
func printRoute(cfg *config.Config, payload model.RoutePayload) error {
	mapClient := amap.NewClientWithConfig(&amap.ClientConfig{
		Key:          cfg.Amap.Key,
		ReadyTimeout: time.Duration(cfg.Amap.ReadyTimeoutSecs) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := mapClient.PlanRoute(ctx, payload)
	if err != nil {
		fmt.Println(model.RoutePlannedText)
		fmt.Printf("目的地: %s\n", payload.Destination.Keyword)
		fmt.Println("路线规划失败:", err)
		return nil
	}

	fmt.Println(amap.FormatSummary(summary))
	return nil
}
