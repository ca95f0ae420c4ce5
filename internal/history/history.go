// Package history manages the watch history in a local SQLite database.
// One row per (video, line, episode) triple holds the last playback
// position, so resuming picks up exactly where playback stopped.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sakura/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	vid      TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	line     INTEGER NOT NULL,
	episode  INTEGER NOT NULL,
	position REAL NOT NULL DEFAULT 0,
	updated  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (vid, line, episode)
);
`

// Store is a handle on the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or updates the entry for its (video, line, episode) triple.
// The update timestamp is taken in Go with nanosecond resolution, so
// back-to-back saves still order correctly.
func (s *Store) Save(entry media.HistoryEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO history (vid, title, line, episode, position, updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (vid, line, episode) DO UPDATE SET
			title = excluded.title,
			position = excluded.position,
			updated = excluded.updated`,
		entry.ID, entry.Title, entry.Line, entry.Episode, entry.Position,
		time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}
	return nil
}

// List returns all entries, most recently watched first.
func (s *Store) List() ([]media.HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT vid, title, line, episode, position
		FROM history ORDER BY updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var e media.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Line, &e.Episode, &e.Position); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for a (video, line, episode) triple; ok reports
// whether one exists.
func (s *Store) Get(vid string, line, episode int) (media.HistoryEntry, bool, error) {
	var e media.HistoryEntry
	err := s.db.QueryRow(`
		SELECT vid, title, line, episode, position
		FROM history WHERE vid = ? AND line = ? AND episode = ?`,
		vid, line, episode).Scan(&e.ID, &e.Title, &e.Line, &e.Episode, &e.Position)
	if err == sql.ErrNoRows {
		return media.HistoryEntry{}, false, nil
	}
	if err != nil {
		return media.HistoryEntry{}, false, fmt.Errorf("reading history entry: %w", err)
	}
	return e, true, nil
}

// Latest returns the most recently watched entry for a video across all
// lines and episodes; ok reports whether the video has any history.
func (s *Store) Latest(vid string) (media.HistoryEntry, bool, error) {
	var e media.HistoryEntry
	err := s.db.QueryRow(`
		SELECT vid, title, line, episode, position
		FROM history WHERE vid = ?
		ORDER BY updated DESC LIMIT 1`,
		vid).Scan(&e.ID, &e.Title, &e.Line, &e.Episode, &e.Position)
	if err == sql.ErrNoRows {
		return media.HistoryEntry{}, false, nil
	}
	if err != nil {
		return media.HistoryEntry{}, false, fmt.Errorf("reading history entry: %w", err)
	}
	return e, true, nil
}

// Remove deletes the entry for a (video, line, episode) triple.
func (s *Store) Remove(vid string, line, episode int) error {
	_, err := s.db.Exec(
		`DELETE FROM history WHERE vid = ? AND line = ? AND episode = ?`,
		vid, line, episode)
	if err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}
