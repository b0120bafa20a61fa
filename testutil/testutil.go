// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/models"
	"github.com/danielhkuo/secret-draw/store"
)

// TestAdminSecret is the admin secret in GetTestConfig
const TestAdminSecret = "test-admin-secret"

// Family returns the five-person roster used across tests.
// Ricardo and Liliana exclude each other, Pedro excludes Juan.
func Family() []models.Participant {
	return []models.Participant{
		{Phone: "600000001", Name: "Ricardo", ExcludedRecipient: "Liliana", Email: "r@test.com"},
		{Phone: "600000002", Name: "Liliana", ExcludedRecipient: "Ricardo", Email: "l@test.com"},
		{Phone: "600000003", Name: "Juan", Email: "j@test.com"},
		{Phone: "600000004", Name: "Maria", Email: "m@test.com"},
		{Phone: "600000005", Name: "Pedro", ExcludedRecipient: "Juan", Email: "p@test.com"},
	}
}

// SetupTestStore creates a CSV store in a temp dir seeded with participants
func SetupTestStore(t *testing.T, participants []models.Participant) *store.CSVStore {
	t.Helper()

	st := store.NewCSVStore(filepath.Join(t.TempDir(), "participants.csv"))
	if len(participants) > 0 {
		if err := st.Upsert(context.Background(), participants); err != nil {
			t.Fatalf("Failed to seed test store: %v", err)
		}
	}

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:        3318,
		StoreType:   cliparse.StoreCSV,
		CSVPath:     "participants.csv",
		AdminSecret: TestAdminSecret,
		SMTPHost:    "smtp.example.com",
		SMTPPort:    465,
		MaxAttempts: 1000,
		EventYear:   2026,
	}
}

// SentMail is one message captured by RecordingMailer
type SentMail struct {
	To       string
	Giver    string
	Receiver string
	Notice   bool
}

// RecordingMailer captures messages instead of sending them.
// Addresses listed in FailFor return an error.
type RecordingMailer struct {
	mu      sync.Mutex
	Sent    []SentMail
	FailFor map[string]bool
}

func (m *RecordingMailer) SendAssignment(ctx context.Context, to, giverName, receiverName string) error {
	return m.record(SentMail{To: to, Giver: giverName, Receiver: receiverName})
}

func (m *RecordingMailer) SendAdminNotice(ctx context.Context, to string) error {
	return m.record(SentMail{To: to, Notice: true})
}

func (m *RecordingMailer) record(mail SentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFor[mail.To] {
		return errors.New("mailbox unavailable")
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

// Messages returns a copy of the captured mail
func (m *RecordingMailer) Messages() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.Sent...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
