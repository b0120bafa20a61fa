// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/secret-draw/db"
	"github.com/danielhkuo/secret-draw/models"
)

// sqlStores returns an in-memory SQLite store, plus a PostgreSQL one when
// TEST_DATABASE_URL is set.
func sqlStores(t *testing.T) map[string]*SQLStore {
	t.Helper()

	stores := map[string]*SQLStore{db.DialectSQLite: openSQLStore(t, db.DialectSQLite, ":memory:")}

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		s := openSQLStore(t, db.DialectPostgres, url)
		_, err := s.db.Exec(`DELETE FROM participant; DELETE FROM draw_run;`)
		require.NoError(t, err)
		stores[db.DialectPostgres] = s
	}

	return stores
}

func openSQLStore(t *testing.T, dialect, dsn string) *SQLStore {
	t.Helper()

	driver, err := db.DriverName(dialect)
	require.NoError(t, err)

	conn, err := sql.Open(driver, dsn)
	require.NoError(t, err)

	s := NewSQLStore(conn, dialect)
	require.NoError(t, db.CreateSchema(conn))
	// Idempotent
	require.NoError(t, db.CreateSchema(conn))

	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_Participants(t *testing.T) {
	for dialect, s := range sqlStores(t) {
		t.Run(dialect, func(t *testing.T) {
			ctx := context.Background()

			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Empty(t, got)

			require.NoError(t, s.Upsert(ctx, roster()))

			got, err = s.List(ctx)
			require.NoError(t, err)
			require.Equal(t, roster(), got)

			p, err := s.Get(ctx, "600000001")
			require.NoError(t, err)
			require.Equal(t, "Liliana", p.ExcludedRecipient)

			_, err = s.Get(ctx, "699999999")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.SetEmail(ctx, "600000001", "r@test.com"))
			require.ErrorIs(t, s.SetEmail(ctx, "699999999", "x@test.com"), ErrNotFound)

			p, err = s.Get(ctx, "600000001")
			require.NoError(t, err)
			require.Equal(t, "r@test.com", p.Email)
		})
	}
}

func TestSQLStore_UpsertKeepsEmailAndOrder(t *testing.T) {
	for dialect, s := range sqlStores(t) {
		t.Run(dialect, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Upsert(ctx, roster()))
			require.NoError(t, s.Upsert(ctx, []models.Participant{
				{Phone: "600000002", Name: "Lili", ExcludedRecipient: "Ricardo"},
				{Phone: "600000005", Name: "Pedro", ExcludedRecipient: "Juan"},
			}))

			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, 4)
			require.Equal(t, models.Participant{Phone: "600000002", Name: "Lili", ExcludedRecipient: "Ricardo", Email: "l@test.com"}, got[1])
			require.Equal(t, "Pedro", got[3].Name)
		})
	}
}

func TestSQLStore_Draws(t *testing.T) {
	for dialect, s := range sqlStores(t) {
		t.Run(dialect, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.LastDraw(ctx)
			require.ErrorIs(t, err, ErrNotFound)

			older := models.DrawRun{ID: "draw-1", CreatedAt: time.Date(2026, 12, 1, 20, 0, 0, 0, time.UTC), Participants: 5, EmailsSent: 5}
			newer := models.DrawRun{ID: "draw-2", CreatedAt: time.Date(2026, 12, 2, 20, 0, 0, 0, time.UTC), Participants: 4, EmailsSent: 3, EmailsFailed: 1}

			// Inserted out of order; the latest by time wins
			require.NoError(t, s.RecordDraw(ctx, newer))
			require.NoError(t, s.RecordDraw(ctx, older))

			last, err := s.LastDraw(ctx)
			require.NoError(t, err)
			require.Equal(t, newer.ID, last.ID)
			require.Equal(t, 4, last.Participants)
			require.Equal(t, 3, last.EmailsSent)
			require.Equal(t, 1, last.EmailsFailed)
			require.True(t, newer.CreatedAt.Equal(last.CreatedAt), "got %v", last.CreatedAt)
		})
	}
}

func TestRebind(t *testing.T) {
	sqlite := &SQLStore{dialect: db.DialectSQLite}
	postgres := &SQLStore{dialect: db.DialectPostgres}

	query := "UPDATE participant SET email = $1 WHERE id = $2"
	require.Equal(t, "UPDATE participant SET email = ? WHERE id = ?", sqlite.rebind(query))
	require.Equal(t, query, postgres.rebind(query))
}
