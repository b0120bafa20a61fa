// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The roster sync tool uses ParseSyncFlags, which adds -from (the CSV to
load) and skips the admin secret check:

	cfg, from, err := cliparse.ParseSyncFlags(os.Args[1:])

The Config is passed explicitly to every component that needs a setting.
Nothing else in the server reads the environment.

# Environment Variables

The environment is decoded first (kelseyhightower/envconfig). main loads an
optional .env file before calling ParseFlags.

	PORT             → -p              (default 3318)
	STORE_TYPE       → -s              (csv, postgres, sqlite, rest)
	DATABASE_URL     → -d
	CSV_PATH         → --csv           (default participants.csv)
	SUPABASE_URL     → --rest-url
	SUPABASE_KEY     → --rest-key
	ADMIN_SECRET_KEY → --admin-secret
	SMTP_HOST        → --smtp-host     (default smtp.gmail.com)
	SMTP_PORT        → --smtp-port     (default 465)
	EMAIL_USER       → --smtp-user
	EMAIL_PASSWORD   → --smtp-password
	ADMIN_EMAIL      → --admin-email
	MAX_ATTEMPTS     → --max-attempts  (default 1000)
	EVENT_YEAR       → --year          (default current year)

CLI flags take precedence over environment variables.

When STORE_TYPE is unset the REST store is used if both SUPABASE_URL and
SUPABASE_KEY are present, otherwise the CSV file.

# Validation

Struct tags are checked with go-playground/validator:

  - ADMIN_SECRET_KEY must be provided
  - SUPABASE_URL and SUPABASE_KEY are required for the rest store
  - DATABASE_URL is required for postgres and sqlite
  - MAX_ATTEMPTS must be positive
  - ADMIN_EMAIL, if set, must be an email address
*/
package cliparse
