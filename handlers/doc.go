// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Secret Draw API.

# Handler Types

Each handler is a struct with store, mailer and config dependencies:

  - ParticipantHandler: Phone lookup and email registration
  - DrawHandler: Running the draw and reporting registration status

Handlers are created via constructor functions:

	participantHandler := handlers.NewParticipantHandler(st, m, cfg)

# Registration Flow

	POST /api/check_user     → CheckUser (found / not found)
	POST /api/register_email → RegisterEmail

When the last participant registers and ADMIN_EMAIL is set, the organizer
receives a single notice with the link to trigger the draw.

# Draw

	POST /api/admin/draw   → RunDraw
	GET  /api/admin/status → Status

Admin operations require the admin secret in the key query parameter or
the X-Admin-Key header. Only participants with an email take part. Each
giver is emailed their receiver; the response lists delivery results per
giver and never the receivers. One draw runs at a time, a second request
gets 409 Conflict.

# Error Responses

All errors return JSON with error and message fields:

	{"error": "Unauthorized", "message": "No autorizado"}

Draw failures use the DrawResponse shape with success=false.
*/
package handlers
