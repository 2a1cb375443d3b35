// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// recommend.go - Daily picks command for the filmpilot CLI.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HandleRecommendCommand prints today's movie picks.
func HandleRecommendCommand(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewAPIClient(cfg)

	count := args.Count
	if count <= 0 {
		count = cfg.UI.DailyPicks
	}
	if count <= 0 {
		count = 3
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	movies, err := client.DailyRecommendations(ctx, count)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		fmt.Println("今日暂无推荐")
		return nil
	}

	fmt.Println("今日推荐")
	fmt.Println(strings.Repeat("─", 40))
	for i, movie := range movies {
		fmt.Printf("%d. %s", i+1, movie.Title)
		if movie.Year != "" {
			fmt.Printf("（%s）", movie.Year)
		}
		if movie.Rating > 0 {
			fmt.Printf("  %.1f 分", movie.Rating)
		}
		fmt.Println()
		if movie.Director != "" {
			fmt.Printf("   导演: %s\n", movie.Director)
		}
		if movie.Tagline != "" {
			fmt.Printf("   %s\n", movie.Tagline)
		}
		if !args.Quiet && movie.Description != "" {
			fmt.Printf("   %s\n", movie.Description)
		}
	}
	return nil
}
