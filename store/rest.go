// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/models"
)

const (
	participantsTable = "participants"
	drawRunsTable     = "draw_runs"
)

// RESTStore talks to a PostgREST endpoint (the hosted Supabase table the
// roster lives in).
type RESTStore struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewRESTStore creates a store for baseURL (e.g. https://xyz.supabase.co).
// A nil client gets a 10 second timeout.
func NewRESTStore(baseURL, key string, client *http.Client) *RESTStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  client,
	}
}

type restParticipant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Email        string `json:"email,omitempty"`
}

func (s *RESTStore) List(ctx context.Context) ([]models.Participant, error) {
	var rows []map[string]any
	if err := s.do(ctx, http.MethodGet, participantsTable, url.Values{"select": {"*"}}, nil, nil, &rows); err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row map[string]any, _ int) models.Participant {
		return participantFromRow(row)
	}), nil
}

func (s *RESTStore) Get(ctx context.Context, phone string) (models.Participant, error) {
	var rows []map[string]any
	q := url.Values{
		"select": {"*"},
		"id":     {"eq." + normalizePhone(phone)},
	}
	if err := s.do(ctx, http.MethodGet, participantsTable, q, nil, nil, &rows); err != nil {
		return models.Participant{}, err
	}
	if len(rows) == 0 {
		return models.Participant{}, ErrNotFound
	}

	return participantFromRow(rows[0]), nil
}

func (s *RESTStore) SetEmail(ctx context.Context, phone, email string) error {
	var rows []map[string]any
	q := url.Values{"id": {"eq." + normalizePhone(phone)}}
	headers := map[string]string{"Prefer": "return=representation"}

	if err := s.do(ctx, http.MethodPatch, participantsTable, q, headers, map[string]string{"email": email}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *RESTStore) Upsert(ctx context.Context, participants []models.Participant) error {
	rows := lo.Map(participants, func(p models.Participant, _ int) restParticipant {
		return restParticipant{
			ID:           normalizePhone(p.Phone),
			Name:         p.Name,
			Relationship: p.ExcludedRecipient,
			Email:        p.Email,
		}
	})

	// PostgREST bulk inserts need the same keys on every row, and a merge
	// only touches the columns sent. Rows without an email go in their own
	// batch so a stored email survives.
	withEmail, withoutEmail := lo.FilterReject(rows, func(r restParticipant, _ int) bool {
		return r.Email != ""
	})

	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	for _, batch := range [][]restParticipant{withEmail, withoutEmail} {
		if len(batch) == 0 {
			continue
		}
		if err := s.do(ctx, http.MethodPost, participantsTable, nil, headers, batch, nil); err != nil {
			return err
		}
	}

	return nil
}

func (s *RESTStore) RecordDraw(ctx context.Context, run models.DrawRun) error {
	run.CreatedAt = run.CreatedAt.UTC()
	return s.do(ctx, http.MethodPost, drawRunsTable, nil, nil, []models.DrawRun{run}, nil)
}

func (s *RESTStore) LastDraw(ctx context.Context) (models.DrawRun, error) {
	var runs []models.DrawRun
	q := url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
		"limit":  {"1"},
	}
	if err := s.do(ctx, http.MethodGet, drawRunsTable, q, nil, nil, &runs); err != nil {
		return models.DrawRun{}, err
	}
	if len(runs) == 0 {
		return models.DrawRun{}, ErrNotFound
	}

	return runs[0], nil
}

func (s *RESTStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// do sends one request to /rest/v1/<table> and decodes a JSON reply into out
func (s *RESTStore) do(ctx context.Context, method, table string, query url.Values, headers map[string]string, body, out any) error {
	endpoint := s.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", table, err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	// Numbers stay literal so numeric phone IDs are not turned into floats
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}

// participantFromRow accepts both the English and the Spanish column names
func participantFromRow(row map[string]any) models.Participant {
	field := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := row[k]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					return s
				}
			}
		}
		return ""
	}

	return models.Participant{
		Phone:             field("id", "ID"),
		Name:              field("name", "nombre"),
		ExcludedRecipient: field("relationship", "parentesco"),
		Email:             field("email"),
	}
}
