// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/secret-draw/db"
	"github.com/danielhkuo/secret-draw/models"
)

// SQLStore keeps the roster in PostgreSQL or SQLite
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore wraps an open connection. The schema must already exist.
func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	if dialect == db.DialectSQLite {
		// One writer at a time; also keeps ":memory:" databases on a single connection
		conn.SetMaxOpenConns(1)
	}
	return &SQLStore{db: conn, dialect: dialect}
}

var placeholder = regexp.MustCompile(`\$\d+`)

// rebind turns $N placeholders into ? for SQLite. Every query here uses
// each argument once, in order.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != db.DialectSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

func (s *SQLStore) List(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, relationship, email
		FROM participant
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.Phone, &p.Name, &p.ExcludedRecipient, &p.Email); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return participants, nil
}

func (s *SQLStore) Get(ctx context.Context, phone string) (models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, relationship, email
		FROM participant
		WHERE id = $1
	`), normalizePhone(phone)).Scan(&p.Phone, &p.Name, &p.ExcludedRecipient, &p.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to query participant: %w", err)
	}

	return p, nil
}

func (s *SQLStore) SetEmail(ctx context.Context, phone, email string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE participant
		SET email = $1
		WHERE id = $2
	`), email, normalizePhone(phone))
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLStore) Upsert(ctx context.Context, participants []models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO participant (id, name, relationship, email, position)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), 0) + 1 FROM participant))
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			relationship = excluded.relationship,
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE participant.email END
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range participants {
		_, err := stmt.ExecContext(ctx, normalizePhone(p.Phone), p.Name, p.ExcludedRecipient, p.Email)
		if err != nil {
			return fmt.Errorf("failed to upsert participant %s: %w", p.Phone, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLStore) RecordDraw(ctx context.Context, run models.DrawRun) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO draw_run (id, created_at, participants, emails_sent, emails_failed)
		VALUES ($1, $2, $3, $4, $5)
	`), run.ID, run.CreatedAt.UTC(), run.Participants, run.EmailsSent, run.EmailsFailed)
	if err != nil {
		return fmt.Errorf("failed to insert draw run: %w", err)
	}

	return nil
}

func (s *SQLStore) LastDraw(ctx context.Context) (models.DrawRun, error) {
	var run models.DrawRun
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, participants, emails_sent, emails_failed
		FROM draw_run
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.CreatedAt, &run.Participants, &run.EmailsSent, &run.EmailsFailed)

	if errors.Is(err, sql.ErrNoRows) {
		return models.DrawRun{}, ErrNotFound
	}
	if err != nil {
		return models.DrawRun{}, fmt.Errorf("failed to query draw run: %w", err)
	}

	return run, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
