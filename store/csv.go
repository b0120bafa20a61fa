// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/models"
)

// Roster file columns. The Spanish headers are what the family spreadsheet
// exports; the English ones are accepted on read.
const (
	colPhone        = "id"
	colName         = "nombre"
	colRelationship = "parentesco"
	colEmail        = "email"
)

var (
	rosterHeader = []string{"ID", colName, colRelationship, colEmail}
	drawHeader   = []string{"id", "created_at", "participants", "emails_sent", "emails_failed"}

	headerAliases = map[string]string{
		"phone":        colPhone,
		"name":         colName,
		"relationship": colRelationship,
		"excluded":     colRelationship,
	}
)

// CSVStore keeps the roster in a ';'-separated file. Every write rewrites
// the whole file, so access is serialized.
type CSVStore struct {
	mu        sync.Mutex
	path      string
	drawsPath string
}

func NewCSVStore(path string) *CSVStore {
	ext := filepath.Ext(path)
	return &CSVStore{
		path:      path,
		drawsPath: strings.TrimSuffix(path, ext) + ".draws" + ext,
	}
}

func (s *CSVStore) List(ctx context.Context) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *CSVStore) Get(ctx context.Context, phone string) (models.Participant, error) {
	participants, err := s.List(ctx)
	if err != nil {
		return models.Participant{}, err
	}

	p, ok := lo.Find(participants, func(p models.Participant) bool {
		return p.Phone == normalizePhone(phone)
	})
	if !ok {
		return models.Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *CSVStore) SetEmail(ctx context.Context, phone, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.read()
	if err != nil {
		return err
	}

	_, idx, ok := lo.FindIndexOf(participants, func(p models.Participant) bool {
		return p.Phone == normalizePhone(phone)
	})
	if !ok {
		return ErrNotFound
	}
	participants[idx].Email = email

	return s.write(participants)
}

func (s *CSVStore) Upsert(ctx context.Context, incoming []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := s.read()
	if err != nil {
		return err
	}

	for _, p := range incoming {
		p.Phone = normalizePhone(p.Phone)
		_, idx, ok := lo.FindIndexOf(participants, func(existing models.Participant) bool {
			return existing.Phone == p.Phone
		})
		if !ok {
			participants = append(participants, p)
			continue
		}
		if p.Email == "" {
			p.Email = participants[idx].Email
		}
		participants[idx] = p
	}

	return s.write(participants)
}

func (s *CSVStore) RecordDraw(ctx context.Context, run models.DrawRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.drawsPath)
	fresh := errors.Is(err, os.ErrNotExist)

	f, err := os.OpenFile(s.drawsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open draw log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if fresh {
		w.Write(drawHeader)
	}
	w.Write([]string{
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		strconv.Itoa(run.Participants),
		strconv.Itoa(run.EmailsSent),
		strconv.Itoa(run.EmailsFailed),
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write draw log: %w", err)
	}

	return nil
}

func (s *CSVStore) LastDraw(ctx context.Context) (models.DrawRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.drawsPath)
	if errors.Is(err, os.ErrNotExist) {
		return models.DrawRun{}, ErrNotFound
	}
	if err != nil {
		return models.DrawRun{}, fmt.Errorf("failed to open draw log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		return models.DrawRun{}, fmt.Errorf("failed to read draw log: %w", err)
	}
	if len(records) < 2 {
		return models.DrawRun{}, ErrNotFound
	}

	return parseDrawRecord(records[len(records)-1])
}

func (s *CSVStore) Close() error {
	return nil
}

func parseDrawRecord(rec []string) (models.DrawRun, error) {
	if len(rec) != len(drawHeader) {
		return models.DrawRun{}, fmt.Errorf("malformed draw record: %d fields", len(rec))
	}

	createdAt, err := time.Parse(time.RFC3339Nano, rec[1])
	if err != nil {
		return models.DrawRun{}, fmt.Errorf("malformed draw time: %w", err)
	}

	counts := make([]int, 3)
	for i := range counts {
		counts[i], err = strconv.Atoi(rec[i+2])
		if err != nil {
			return models.DrawRun{}, fmt.Errorf("malformed draw %s: %w", drawHeader[i+2], err)
		}
	}

	return models.DrawRun{
		ID:           rec[0],
		CreatedAt:    createdAt,
		Participants: counts[0],
		EmailsSent:   counts[1],
		EmailsFailed: counts[2],
	}, nil
}

// read loads the roster; a missing file is an empty roster
func (s *CSVStore) read() ([]models.Participant, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Participant{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	return ReadRoster(f)
}

// write replaces the roster file atomically
func (s *CSVStore) write(participants []models.Participant) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp roster: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRoster(tmp, participants); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp roster: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace roster: %w", err)
	}
	return nil
}

// ReadRoster parses a ';'-separated roster with a header row
func ReadRoster(r io.Reader) ([]models.Participant, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []models.Participant{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		columns[h] = i
	}
	if _, ok := columns[colPhone]; !ok {
		return nil, errors.New("roster header is missing the ID column")
	}

	field := func(rec []string, col string) string {
		i, ok := columns[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	participants := []models.Participant{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}

		phone := normalizePhone(field(rec, colPhone))
		if phone == "" {
			continue
		}
		participants = append(participants, models.Participant{
			Phone:             phone,
			Name:              strings.TrimSpace(field(rec, colName)),
			ExcludedRecipient: strings.TrimSpace(field(rec, colRelationship)),
			Email:             strings.TrimSpace(field(rec, colEmail)),
		})
	}

	return participants, nil
}

// WriteRoster writes participants in the same layout ReadRoster accepts
func WriteRoster(w io.Writer, participants []models.Participant) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	cw.Write(rosterHeader)
	for _, p := range participants {
		cw.Write([]string{p.Phone, p.Name, p.ExcludedRecipient, p.Email})
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}
