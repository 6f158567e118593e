// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/haven-tui/internal/backend"
)

// =============================================================================
// CACHE
// =============================================================================

// Cache is the local SQLite mirror of backend state.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	message_count INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS drafts (
	session_id TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// DefaultPath returns the default cache database location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".haven", "cache.db"), nil
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY under the tea command pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// =============================================================================
// SESSION SUMMARIES
// =============================================================================

// SaveSummaries replaces the cached session list wholesale. The list is
// small; a full replace keeps deletions simple.
func (c *Cache) SaveSummaries(sessions []backend.SessionSummary) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sessions (id, title, message_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range sessions {
		if _, err := stmt.Exec(s.ID, s.Title, s.MessageCount, s.CreatedAt, s.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Summaries returns the cached session list, newest first.
func (c *Cache) Summaries() ([]backend.SessionSummary, error) {
	rows, err := c.db.Query(`
		SELECT id, title, message_count, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []backend.SessionSummary
	for rows.Next() {
		var s backend.SessionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.MessageCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// =============================================================================
// DRAFTS
// =============================================================================

// draftKey maps the unsaved fresh chat onto a stable row.
const freshDraftKey = "_fresh"

func draftKey(sessionID string) string {
	if sessionID == "" {
		return freshDraftKey
	}
	return sessionID
}

// SaveDraft persists the compose text for a session. An empty sessionID
// addresses the fresh unsaved chat. Empty text deletes the draft.
func (c *Cache) SaveDraft(sessionID, input string) error {
	if input == "" {
		return c.DeleteDraft(sessionID)
	}
	_, err := c.db.Exec(`
		INSERT INTO drafts (session_id, input, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			input = excluded.input,
			updated_at = excluded.updated_at`,
		draftKey(sessionID), input, time.Now())
	return err
}

// Draft returns the stored compose text for a session, if any.
func (c *Cache) Draft(sessionID string) (string, bool, error) {
	var input string
	err := c.db.QueryRow(`SELECT input FROM drafts WHERE session_id = ?`,
		draftKey(sessionID)).Scan(&input)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return input, true, nil
}

// DeleteDraft removes the draft for a session.
func (c *Cache) DeleteDraft(sessionID string) error {
	_, err := c.db.Exec(`DELETE FROM drafts WHERE session_id = ?`, draftKey(sessionID))
	return err
}

// PruneDrafts removes drafts for sessions no longer in the cached list.
// The fresh-chat draft is always kept.
func (c *Cache) PruneDrafts() error {
	_, err := c.db.Exec(`
		DELETE FROM drafts
		WHERE session_id != ?
		  AND session_id NOT IN (SELECT id FROM sessions)`, freshDraftKey)
	return err
}
