// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/handlers"
	"github.com/danielhkuo/secret-draw/mailer"
	"github.com/danielhkuo/secret-draw/middleware"
	"github.com/danielhkuo/secret-draw/store"
)

func NewRouter(st store.Store, m mailer.Mailer, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	participantHandler := handlers.NewParticipantHandler(st, m, cfg)
	drawHandler := handlers.NewDrawHandler(st, m, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registration (public)
	mux.HandleFunc("POST /api/check_user", middleware.WithLogging(participantHandler.CheckUser))
	mux.HandleFunc("POST /api/register_email", middleware.WithLogging(participantHandler.RegisterEmail))

	// Admin operations (admin secret)
	mux.HandleFunc("POST /api/admin/draw", middleware.WithLogging(drawHandler.RunDraw))
	mux.HandleFunc("GET /api/admin/status", middleware.WithLogging(drawHandler.Status))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret-draw API v1"))
	})

	return mux
}
