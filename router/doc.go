// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Secret Draw API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, mailer, cfg)

# Endpoints

Health:

	GET /health

Registration (public):

	POST /api/check_user      - Look up a participant by phone
	POST /api/register_email  - Save the participant's email

Admin (requires ?key= or X-Admin-Key):

	POST /api/admin/draw      - Run the draw and email every giver
	GET  /api/admin/status    - Registration progress and last draw

# Handler Initialization

	participantHandler := handlers.NewParticipantHandler(store, mailer, cfg)
	drawHandler := handlers.NewDrawHandler(store, mailer, cfg)

Both handlers share the store, the mailer and the configuration.
*/
package router
