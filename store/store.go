// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/db"
	"github.com/danielhkuo/secret-draw/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists the roster and the draw audit log
type Store interface {
	// List returns every participant in roster order
	List(ctx context.Context) ([]models.Participant, error)
	Get(ctx context.Context, phone string) (models.Participant, error)
	SetEmail(ctx context.Context, phone, email string) error
	// Upsert inserts or replaces participants by phone. An empty email in
	// the input never clears a stored one.
	Upsert(ctx context.Context, participants []models.Participant) error
	RecordDraw(ctx context.Context, run models.DrawRun) error
	LastDraw(ctx context.Context) (models.DrawRun, error)
	Close() error
}

// Open builds the store selected by cfg.StoreType
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	switch cfg.StoreType {
	case cliparse.StoreCSV:
		return NewCSVStore(cfg.CSVPath), nil
	case cliparse.StoreREST:
		return NewRESTStore(cfg.RestURL, cfg.RestKey, nil), nil
	case cliparse.StorePostgres, cliparse.StoreSQLite:
		driver, err := db.DriverName(cfg.StoreType)
		if err != nil {
			return nil, err
		}
		conn, err := sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		s := NewSQLStore(conn, cfg.StoreType)
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
