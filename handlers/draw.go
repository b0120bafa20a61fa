// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/auth"
	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/mailer"
	"github.com/danielhkuo/secret-draw/matcher"
	"github.com/danielhkuo/secret-draw/middleware"
	"github.com/danielhkuo/secret-draw/models"
	"github.com/danielhkuo/secret-draw/store"
)

type DrawHandler struct {
	store  store.Store
	mailer mailer.Mailer
	cfg    cliparse.Config

	// one draw at a time against the shared roster
	running sync.Mutex
}

func NewDrawHandler(st store.Store, m mailer.Mailer, cfg cliparse.Config) *DrawHandler {
	return &DrawHandler{store: st, mailer: m, cfg: cfg}
}

// authorize checks the admin secret and logs rejected callers by hashed IP
func (h *DrawHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidateAdminSecret(auth.AdminSecretFromRequest(r), h.cfg.AdminSecret); err != nil {
		slog.Warn("admin request rejected",
			"path", r.URL.Path,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminSecret),
		)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No autorizado")
		return false
	}
	return true
}

// RunDraw handles POST /api/admin/draw
// Only participants with a registered email take part.
func (h *DrawHandler) RunDraw(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	if !h.running.TryLock() {
		middleware.ErrorResponse(w, http.StatusConflict, "Ya hay un sorteo en curso")
		return
	}
	defer h.running.Unlock()

	participants, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	registered := lo.Filter(participants, func(p models.Participant, _ int) bool {
		return p.Registered()
	})
	if len(registered) < 2 {
		middleware.JSONResponse(w, http.StatusBadRequest, models.DrawResponse{
			Success: false,
			Message: "No hay suficientes participantes con email registrado",
		})
		return
	}

	assignments, err := matcher.Generate(registered, matcher.WithMaxAttempts(h.cfg.MaxAttempts))
	if errors.Is(err, matcher.ErrNoAssignment) {
		slog.Warn("no valid draw found",
			"participants", len(registered),
			"max_attempts", h.cfg.MaxAttempts,
		)
		middleware.JSONResponse(w, http.StatusInternalServerError, models.DrawResponse{
			Success: false,
			Message: "No se pudo generar un sorteo válido con las restricciones actuales",
		})
		return
	}
	if err != nil {
		slog.Error("draw failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Draw failed")
		return
	}

	run := models.DrawRun{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Participants: len(assignments),
	}

	results := make([]models.DeliveryResult, 0, len(assignments))
	for _, a := range assignments {
		err := h.mailer.SendAssignment(r.Context(), a.Giver.Email, a.Giver.Name, a.Receiver.Name)
		if err != nil {
			// Never log the receiver
			slog.Error("failed to send assignment", "draw_id", run.ID, "giver", a.Giver.Name, "error", err)
			run.EmailsFailed++
		} else {
			run.EmailsSent++
		}
		results = append(results, models.DeliveryResult{Giver: a.Giver.Name, Success: err == nil})
	}

	if err := h.store.RecordDraw(r.Context(), run); err != nil {
		slog.Error("failed to record draw", "draw_id", run.ID, "error", err)
	}

	slog.Info("draw completed",
		"draw_id", run.ID,
		"participants", run.Participants,
		"emails_sent", run.EmailsSent,
		"emails_failed", run.EmailsFailed,
	)

	middleware.JSONResponse(w, http.StatusOK, models.DrawResponse{
		Success: true,
		Message: fmt.Sprintf("Sorteo completado. Se enviaron %d correos.", run.EmailsSent),
		DrawID:  run.ID,
		Results: results,
	})
}

// Status handles GET /api/admin/status
func (h *DrawHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	participants, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	pending := lo.FilterMap(participants, func(p models.Participant, _ int) (string, bool) {
		return p.Name, !p.Registered()
	})

	resp := models.StatusResponse{
		Total:      len(participants),
		Registered: len(participants) - len(pending),
		Pending:    pending,
	}

	last, err := h.store.LastDraw(r.Context())
	switch {
	case err == nil:
		resp.LastDraw = &last
	case errors.Is(err, store.ErrNotFound):
	default:
		slog.Error("failed to load last draw", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
