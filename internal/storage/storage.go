// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists user-created routines and conversation transcripts
// in a local SQLite database.
//
// Only user-created routines are stored. Built-in routines are seeded from
// code on every start, so persisting them would just create drift.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/precie21/astral-assistant/internal/automation"
	"github.com/precie21/astral-assistant/internal/model"
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS routines (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	trigger     TEXT NOT NULL,
	actions     TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	last_run    INTEGER
);

CREATE TABLE IF NOT EXISTS transcript (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed persistence layer.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.astral/astral.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".astral", "astral.db"), nil
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// ROUTINES
// =============================================================================

// SaveRoutine inserts or replaces a routine.
func (s *Store) SaveRoutine(r automation.Routine) error {
	trigger, err := automation.EncodeTrigger(r.Trigger)
	if err != nil {
		return fmt.Errorf("encode trigger: %w", err)
	}
	actions, err := automation.EncodeActions(r.Actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}

	var lastRun sql.NullInt64
	if r.LastRun != nil {
		lastRun = sql.NullInt64{Int64: r.LastRun.Unix(), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO routines (id, name, description, enabled, trigger, actions, created_at, last_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.Description, boolToInt(r.Enabled), string(trigger), string(actions), r.CreatedAt.Unix(), lastRun)
	return err
}

// LoadRoutines returns all stored routines, ordered by ID.
func (s *Store) LoadRoutines() ([]automation.Routine, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, enabled, trigger, actions, created_at, last_run
		FROM routines ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []automation.Routine
	for rows.Next() {
		var (
			r       automation.Routine
			enabled int
			trigger string
			actions string
			created int64
			lastRun sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &enabled, &trigger, &actions, &created, &lastRun); err != nil {
			return nil, err
		}
		r.Enabled = enabled != 0
		r.CreatedAt = time.Unix(created, 0)
		if lastRun.Valid {
			t := time.Unix(lastRun.Int64, 0)
			r.LastRun = &t
		}
		if r.Trigger, err = automation.DecodeTrigger([]byte(trigger)); err != nil {
			return nil, fmt.Errorf("routine %s: %w", r.ID, err)
		}
		if r.Actions, err = automation.DecodeActions([]byte(actions)); err != nil {
			return nil, fmt.Errorf("routine %s: %w", r.ID, err)
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// DeleteRoutine removes a routine by ID. Deleting an unknown ID is not
// an error.
func (s *Store) DeleteRoutine(id string) error {
	_, err := s.db.Exec("DELETE FROM routines WHERE id = ?", id)
	return err
}

// TouchLastRun records an execution time for a stored routine.
func (s *Store) TouchLastRun(id string, when time.Time) error {
	_, err := s.db.Exec("UPDATE routines SET last_run = ? WHERE id = ?", when.Unix(), id)
	return err
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// AppendTranscript records one message in the conversation transcript.
func (s *Store) AppendTranscript(msg model.Message) error {
	if msg.Role == model.RoleSystem {
		return errors.New("system messages are not recorded")
	}
	_, err := s.db.Exec(
		"INSERT INTO transcript (role, content, created_at) VALUES (?, ?, ?)",
		msg.Role.String(), msg.Content, time.Now().Unix(),
	)
	return err
}

// RecentTranscript returns up to limit most recent messages, oldest first.
func (s *Store) RecentTranscript(limit int) ([]model.Message, error) {
	rows, err := s.db.Query(`
		SELECT role, content FROM (
			SELECT id, role, content FROM transcript ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}
		switch role {
		case "user":
			msgs = append(msgs, model.NewUserMessage(content))
		case "assistant":
			msgs = append(msgs, model.NewAssistantMessage(content))
		default:
			// Skip rows written by future versions
		}
	}
	return msgs, rows.Err()
}

// ClearTranscript removes all transcript rows.
func (s *Store) ClearTranscript() error {
	_, err := s.db.Exec("DELETE FROM transcript")
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
