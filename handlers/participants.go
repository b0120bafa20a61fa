// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/mailer"
	"github.com/danielhkuo/secret-draw/middleware"
	"github.com/danielhkuo/secret-draw/models"
	"github.com/danielhkuo/secret-draw/store"
)

var validate = validator.New()

type ParticipantHandler struct {
	store  store.Store
	mailer mailer.Mailer
	cfg    cliparse.Config

	// set once the admin has been told everyone registered
	noticeSent atomic.Bool
}

func NewParticipantHandler(st store.Store, m mailer.Mailer, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{store: st, mailer: m, cfg: cfg}
}

// CheckUser handles POST /api/check_user
// An unknown phone is a normal 200 answer with found=false.
func (h *ParticipantHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req models.CheckUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "phone is required")
		return
	}

	p, err := h.store.Get(r.Context(), req.Phone)
	if errors.Is(err, store.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.CheckUserResponse{
			Found:   false,
			Message: "Teléfono no encontrado",
		})
		return
	}
	if err != nil {
		slog.Error("failed to look up participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CheckUserResponse{
		Found:   true,
		Name:    p.Name,
		Message: "Gracias " + p.Name,
	})
}

// RegisterEmail handles POST /api/register_email
func (h *ParticipantHandler) RegisterEmail(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterEmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A phone and a valid email are required")
		return
	}

	p, err := h.store.Get(r.Context(), req.Phone)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		slog.Error("failed to look up participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	if err := h.store.SetEmail(r.Context(), req.Phone, req.Email); err != nil {
		slog.Error("failed to save email", "phone", req.Phone, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error guardando el correo")
		return
	}

	slog.Info("email registered", "phone", req.Phone)

	h.notifyAdminIfComplete(r.Context())

	middleware.JSONResponse(w, http.StatusOK, models.RegisterEmailResponse{
		Success: true,
		Message: fmt.Sprintf("Gracias %s, tu correo ha sido registrado correctamente.", p.Name),
	})
}

// notifyAdminIfComplete emails the organizer the first time every
// participant has an email. Failures are logged and retried on the next
// registration.
func (h *ParticipantHandler) notifyAdminIfComplete(ctx context.Context) {
	if h.cfg.AdminEmail == "" || h.noticeSent.Load() {
		return
	}

	participants, err := h.store.List(ctx)
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		return
	}
	if len(participants) == 0 || !lo.EveryBy(participants, models.Participant.Registered) {
		return
	}

	if !h.noticeSent.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if err := h.mailer.SendAdminNotice(ctx, h.cfg.AdminEmail); err != nil {
		h.noticeSent.Store(false)
		slog.Error("failed to notify admin", "error", err)
		return
	}

	slog.Info("admin notified, all participants registered", "participants", len(participants))
}
