package db

import (
	"fmt"

	"github.com/javiermolinar/weekgrid/internal/event"
)

// migrate creates the schema and seeds the default tags.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tags (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			emoji        TEXT NOT NULL DEFAULT '',
			hue          REAL NOT NULL,
			bg_sat       REAL NOT NULL,
			bg_light     REAL NOT NULL,
			border_sat   REAL NOT NULL,
			border_light REAL NOT NULL,
			text_light   REAL NOT NULL,
			position     INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			row_id     TEXT NOT NULL,
			start_ms   INTEGER NOT NULL,
			end_ms     INTEGER NOT NULL CHECK(end_ms > start_ms),
			tag_id     TEXT NOT NULL DEFAULT '',
			title      TEXT NOT NULL DEFAULT '',
			details    TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_ms);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return s.seedTags()
}

// seedTags inserts the default tags once. Existing rows are left alone so
// user edits survive restarts.
func (s *SQLite) seedTags() error {
	query := `
		INSERT OR IGNORE INTO tags (
			id, name, emoji, hue, bg_sat, bg_light, border_sat, border_light, text_light, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, t := range event.DefaultTags() {
		if _, err := s.db.Exec(query,
			t.ID, t.Name, t.Emoji, t.Hue, t.BgSat, t.BgLight, t.BorderSat, t.BorderLight, t.TextLight, i,
		); err != nil {
			return fmt.Errorf("seeding tag %q: %w", t.Name, err)
		}
	}
	return nil
}
