// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CheckUserRequest: phone
  - RegisterEmailRequest: phone, email (validated with go-playground/validator tags)

# Response Types

Types for JSON responses:

  - CheckUserResponse: found, name, message
  - RegisterEmailResponse: success, message
  - DrawResponse: success, message, draw_id, results
  - StatusResponse: total, registered, pending, last_draw
  - ErrorResponse: error, message

Draw responses only list givers and whether their email was delivered.
Receivers never leave the server except inside the giver's own email.

# Domain Types

  - Participant: phone (identity), name, excluded recipient, email
  - DrawRun: audit record of a completed draw (no assignments)
*/
package models
