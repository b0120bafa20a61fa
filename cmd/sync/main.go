// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command sync loads a roster CSV into the configured participant store.
// Existing participants are updated by phone; registered emails are kept.
//
//	go run ./cmd/sync -from bbdd-amigoinvisible.csv -s sqlite -d file:draw.db
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/models"
	"github.com/danielhkuo/secret-draw/store"
)

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env")
	}

	cfg, from, err := cliparse.ParseSyncFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("store open failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	n, err := sync(ctx, from, st)
	if err != nil {
		slog.Error("sync failed", "from", from, "error", err)
		os.Exit(1)
	}

	slog.Info("Sync complete", "from", from, "store", cfg.StoreType, "participants", n)
}

// sync upserts every participant in the roster file and returns how many
// were written
func sync(ctx context.Context, from string, st store.Store) (int, error) {
	f, err := os.Open(from)
	if err != nil {
		return 0, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	participants, err := store.ReadRoster(f)
	if err != nil {
		return 0, err
	}

	dupes := lo.FindDuplicatesBy(participants, func(p models.Participant) string { return p.Phone })
	if len(dupes) > 0 {
		return 0, fmt.Errorf("duplicate phone %s in roster", dupes[0].Phone)
	}

	slog.Info("Found participants in roster", "count", len(participants))

	if err := st.Upsert(ctx, participants); err != nil {
		return 0, err
	}

	return len(participants), nil
}
