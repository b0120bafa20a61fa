// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Secret Draw API server.

Secret Draw runs a gift-exchange ("amigo invisible") draw. Participants
confirm themselves by phone number and register an email address; once
the organizer triggers the draw every giver is emailed the name of the
person they give to. Nobody gives to themselves and a participant can
name one person they must not be paired with.

# Starting the Server

The server reads a .env file if present, then environment variables,
then CLI flags:

	ADMIN_SECRET_KEY=... go run .

Or with flags:

	go run . -p 3318 -s sqlite -d file:draw.db -admin-secret ...

# Configuration

Required settings:

  - ADMIN_SECRET_KEY (-admin-secret): Secret for the admin endpoints
  - EMAIL_USER / EMAIL_PASSWORD: SMTP credentials used to deliver results

Store selection (STORE_TYPE, -s):

  - csv: CSV_PATH (-csv), default participants.csv
  - postgres, sqlite: DATABASE_URL (-d)
  - rest: SUPABASE_URL and SUPABASE_KEY

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - ADMIN_EMAIL: Organizer notified once everyone registered
  - MAX_ATTEMPTS: Shuffle attempts per draw (default: 1000)

# Architecture

  - matcher: Randomized constrained assignment
  - handlers: HTTP request handlers (registration, draw, status)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - store: Participant storage (CSV, SQL, REST)
  - mailer: SMTP delivery and email templates
  - models: Request/response and roster types
  - auth: Admin secret checks
  - db: Schema creation
  - cliparse: Configuration parsing

The cmd/sync tool loads a roster CSV into any configured store.

See package documentation for each component.
*/
package main
