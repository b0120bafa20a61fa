// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/secret-draw/models"
	"github.com/danielhkuo/secret-draw/store"
	"github.com/danielhkuo/secret-draw/testutil"
)

// brokenStore fails every call
type brokenStore struct{ store.Store }

var errBroken = errors.New("store unavailable")

func (brokenStore) List(context.Context) ([]models.Participant, error) { return nil, errBroken }
func (brokenStore) Get(context.Context, string) (models.Participant, error) {
	return models.Participant{}, errBroken
}
func (brokenStore) SetEmail(context.Context, string, string) error { return errBroken }
func (brokenStore) LastDraw(context.Context) (models.DrawRun, error) {
	return models.DrawRun{}, errBroken
}

func unregistered(participants []models.Participant) []models.Participant {
	out := make([]models.Participant, len(participants))
	for i, p := range participants {
		p.Email = ""
		out[i] = p
	}
	return out
}

func TestCheckUser(t *testing.T) {
	st := testutil.SetupTestStore(t, testutil.Family())
	handler := NewParticipantHandler(st, &testutil.RecordingMailer{}, testutil.GetTestConfig())

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantFound   bool
		wantName    string
		wantMessage string
	}{
		{
			name:        "known phone",
			body:        models.CheckUserRequest{Phone: "600000003"},
			wantStatus:  http.StatusOK,
			wantFound:   true,
			wantName:    "Juan",
			wantMessage: "Gracias Juan",
		},
		{
			name:        "surrounding whitespace",
			body:        models.CheckUserRequest{Phone: "  600000004 "},
			wantStatus:  http.StatusOK,
			wantFound:   true,
			wantName:    "Maria",
			wantMessage: "Gracias Maria",
		},
		{
			name:        "unknown phone",
			body:        models.CheckUserRequest{Phone: "699999999"},
			wantStatus:  http.StatusOK,
			wantFound:   false,
			wantMessage: "Teléfono no encontrado",
		},
		{
			name:       "empty phone",
			body:       models.CheckUserRequest{Phone: "   "},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "phone field missing",
			body:       map[string]string{"telefono": "600000001"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/check_user", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CheckUser(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp models.CheckUserResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Found != tt.wantFound {
				t.Errorf("Expected found=%v, got %v", tt.wantFound, resp.Found)
			}
			if resp.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, resp.Name)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestCheckUser_InvalidJSON(t *testing.T) {
	st := testutil.SetupTestStore(t, testutil.Family())
	handler := NewParticipantHandler(st, &testutil.RecordingMailer{}, testutil.GetTestConfig())

	req := httptest.NewRequest("POST", "/api/check_user", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	handler.CheckUser(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestCheckUser_StoreError(t *testing.T) {
	handler := NewParticipantHandler(brokenStore{}, &testutil.RecordingMailer{}, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/check_user", models.CheckUserRequest{Phone: "600000001"}, nil)
	w := httptest.NewRecorder()

	handler.CheckUser(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

func TestRegisterEmail(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name:       "valid registration",
			body:       models.RegisterEmailRequest{Phone: "600000001", Email: "ricardo@example.com"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown phone",
			body:       models.RegisterEmailRequest{Phone: "699999999", Email: "nobody@example.com"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid email",
			body:       models.RegisterEmailRequest{Phone: "600000001", Email: "not-an-email"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing phone",
			body:       models.RegisterEmailRequest{Email: "ricardo@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       models.RegisterEmailRequest{Phone: "600000001"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testutil.SetupTestStore(t, unregistered(testutil.Family()))
			handler := NewParticipantHandler(st, &testutil.RecordingMailer{}, testutil.GetTestConfig())

			req := testutil.MakeRequest("POST", "/api/register_email", tt.body, nil)
			w := httptest.NewRecorder()

			handler.RegisterEmail(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestRegisterEmail_Persists(t *testing.T) {
	st := testutil.SetupTestStore(t, unregistered(testutil.Family()))
	handler := NewParticipantHandler(st, &testutil.RecordingMailer{}, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/register_email",
		models.RegisterEmailRequest{Phone: "600000002", Email: " liliana@example.com "}, nil)
	w := httptest.NewRecorder()

	handler.RegisterEmail(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RegisterEmailResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Error("Expected success=true")
	}
	want := "Gracias Liliana, tu correo ha sido registrado correctamente."
	if resp.Message != want {
		t.Errorf("Expected message %q, got %q", want, resp.Message)
	}

	p, err := st.Get(context.Background(), "600000002")
	if err != nil {
		t.Fatalf("Failed to load participant: %v", err)
	}
	if p.Email != "liliana@example.com" {
		t.Errorf("Expected stored email liliana@example.com, got %q", p.Email)
	}
}

func TestRegisterEmail_StoreError(t *testing.T) {
	handler := NewParticipantHandler(brokenStore{}, &testutil.RecordingMailer{}, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/register_email",
		models.RegisterEmailRequest{Phone: "600000001", Email: "r@test.com"}, nil)
	w := httptest.NewRecorder()

	handler.RegisterEmail(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

func TestRegisterEmail_AdminNotice(t *testing.T) {
	family := testutil.Family()
	st := testutil.SetupTestStore(t, unregistered(family))
	mail := &testutil.RecordingMailer{}

	cfg := testutil.GetTestConfig()
	cfg.AdminEmail = "organizer@test.com"
	handler := NewParticipantHandler(st, mail, cfg)

	register := func(p models.Participant) {
		t.Helper()
		req := testutil.MakeRequest("POST", "/api/register_email",
			models.RegisterEmailRequest{Phone: p.Phone, Email: p.Email}, nil)
		w := httptest.NewRecorder()
		handler.RegisterEmail(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	for _, p := range family[:len(family)-1] {
		register(p)
	}
	if n := len(mail.Messages()); n != 0 {
		t.Fatalf("Expected no notice before everyone registered, got %d messages", n)
	}

	register(family[len(family)-1])

	// Re-registering must not send a second notice
	register(family[0])

	msgs := mail.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected exactly one notice, got %d", len(msgs))
	}
	if !msgs[0].Notice || msgs[0].To != "organizer@test.com" {
		t.Errorf("Unexpected notice: %+v", msgs[0])
	}
}

func TestRegisterEmail_AdminNoticeRetried(t *testing.T) {
	family := testutil.Family()
	st := testutil.SetupTestStore(t, unregistered(family))
	mail := &testutil.RecordingMailer{FailFor: map[string]bool{"organizer@test.com": true}}

	cfg := testutil.GetTestConfig()
	cfg.AdminEmail = "organizer@test.com"
	handler := NewParticipantHandler(st, mail, cfg)

	for _, p := range family {
		req := testutil.MakeRequest("POST", "/api/register_email",
			models.RegisterEmailRequest{Phone: p.Phone, Email: p.Email}, nil)
		w := httptest.NewRecorder()
		handler.RegisterEmail(w, req)
		// A failed notice never fails the registration
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	if handler.noticeSent.Load() {
		t.Fatal("Expected notice flag to reset after a failed send")
	}

	mail.FailFor = nil
	req := testutil.MakeRequest("POST", "/api/register_email",
		models.RegisterEmailRequest{Phone: family[0].Phone, Email: family[0].Email}, nil)
	handler.RegisterEmail(httptest.NewRecorder(), req)

	if len(mail.Messages()) != 1 {
		t.Errorf("Expected the notice on the next registration, got %d messages", len(mail.Messages()))
	}
}

func TestRegisterEmail_NoAdminEmail(t *testing.T) {
	family := testutil.Family()
	st := testutil.SetupTestStore(t, unregistered(family))
	mail := &testutil.RecordingMailer{}
	handler := NewParticipantHandler(st, mail, testutil.GetTestConfig())

	for _, p := range family {
		req := testutil.MakeRequest("POST", "/api/register_email",
			models.RegisterEmailRequest{Phone: p.Phone, Email: p.Email}, nil)
		handler.RegisterEmail(httptest.NewRecorder(), req)
	}

	if len(mail.Messages()) != 0 {
		t.Errorf("Expected no mail without ADMIN_EMAIL, got %d", len(mail.Messages()))
	}
}
