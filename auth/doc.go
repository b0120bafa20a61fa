// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the admin endpoints.

# Admin Secret

The draw and status endpoints take the configured admin secret, either as
the "key" query parameter or the X-Admin-Key header:

	provided := auth.AdminSecretFromRequest(r)
	err := auth.ValidateAdminSecret(provided, cfg.AdminSecret)

The comparison is constant time. An empty configured secret rejects every
request.

# IP Hashing

Failed admin attempts are logged with a hashed client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
