// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
)

var (
	ErrInvalidAdminSecret = errors.New("invalid admin secret")
)

// ValidateAdminSecret compares the provided secret with the configured one
// in constant time. An empty configured secret never validates.
func ValidateAdminSecret(provided, expected string) error {
	if expected == "" {
		return ErrInvalidAdminSecret
	}
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminSecret
	}
	return nil
}

// AdminSecretFromRequest reads the secret from the "key" query parameter,
// falling back to the X-Admin-Key header
func AdminSecretFromRequest(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get("X-Admin-Key")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
