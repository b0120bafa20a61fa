// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	driver, err := db.DriverName(db.DialectSQLite) // "sqlite"

# Tables

  - participant: roster rows (id is the phone number, relationship is the
    excluded recipient's name, position keeps insertion order)
  - draw_run: one row per completed draw, counts only

# Indexes

  - participant.position
  - draw_run.created_at
*/
package db
