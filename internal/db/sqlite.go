// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/weekgrid/internal/event"
)

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ event.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectEvent = `
	SELECT id, row_id, start_ms, end_ms, tag_id, title, details
	FROM events
`

// CreateEvent adds a new event. Fails if the id already exists.
func (s *SQLite) CreateEvent(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, row_id, start_ms, end_ms, tag_id, title, details, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.RowID,
		e.Start.UnixMilli(),
		e.End.UnixMilli(),
		e.TagID,
		e.Title,
		e.Details,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting event %s: %w", e.ID, err)
	}

	return nil
}

// GetEvent retrieves an event by id.
func (s *SQLite) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	row := s.db.QueryRowContext(ctx, selectEvent+` WHERE id = ?`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	return e, nil
}

// SaveEvent inserts the event or replaces the stored copy.
func (s *SQLite) SaveEvent(ctx context.Context, e *event.Event) error {
	return saveEvent(ctx, s.db, e)
}

func saveEvent(ctx context.Context, x execer, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, row_id, start_ms, end_ms, tag_id, title, details, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			row_id = excluded.row_id,
			start_ms = excluded.start_ms,
			end_ms = excluded.end_ms,
			tag_id = excluded.tag_id,
			title = excluded.title,
			details = excluded.details,
			updated_at = excluded.updated_at
	`
	_, err := x.ExecContext(ctx, query,
		e.ID,
		e.RowID,
		e.Start.UnixMilli(),
		e.End.UnixMilli(),
		e.TagID,
		e.Title,
		e.Details,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving event %s: %w", e.ID, err)
	}

	return nil
}

// DeleteEvent removes an event.
func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	deleted, err := deleteEvent(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}
	return nil
}

func deleteEvent(ctx context.Context, x execer, id string) (bool, error) {
	result, err := x.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting event %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ApplyChanges persists row changes in a single transaction.
func (s *SQLite) ApplyChanges(ctx context.Context, changes []event.Change) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range changes {
		if c.Kind == event.ChangeDeleted {
			if _, err := deleteEvent(ctx, tx, c.EventID); err != nil {
				return err
			}
			continue
		}
		if c.Event == nil {
			return fmt.Errorf("%s change for %s carries no event", c.Kind, c.EventID)
		}
		if err := saveEvent(ctx, tx, c.Event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ListEventsByRange returns events starting within [start, end), ordered
// by start time. Times are returned in the local timezone.
func (s *SQLite) ListEventsByRange(ctx context.Context, start, end time.Time) ([]*event.Event, error) {
	query := selectEvent + `
		WHERE start_ms >= ? AND start_ms < ?
		ORDER BY start_ms, id
	`

	rows, err := s.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// ListTags returns all tags in display order.
func (s *SQLite) ListTags(ctx context.Context) (event.Tags, error) {
	query := `
		SELECT id, name, emoji, hue, bg_sat, bg_light, border_sat, border_light, text_light
		FROM tags
		ORDER BY position, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags event.Tags
	for rows.Next() {
		var t event.Tag
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Emoji, &t.Hue,
			&t.BgSat, &t.BgLight, &t.BorderSat, &t.BorderLight, &t.TextLight,
		); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

// SaveTag inserts the tag or replaces the stored copy. New tags are
// appended after existing ones.
func (s *SQLite) SaveTag(ctx context.Context, t event.Tag) error {
	if t.ID == "" {
		return fmt.Errorf("saving tag: %w", event.ErrEmptyID)
	}

	query := `
		INSERT INTO tags (
			id, name, emoji, hue, bg_sat, bg_light, border_sat, border_light, text_light, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tags))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			emoji = excluded.emoji,
			hue = excluded.hue,
			bg_sat = excluded.bg_sat,
			bg_light = excluded.bg_light,
			border_sat = excluded.border_sat,
			border_light = excluded.border_light,
			text_light = excluded.text_light
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Emoji, t.Hue, t.BgSat, t.BgLight, t.BorderSat, t.BorderLight, t.TextLight,
	)
	if err != nil {
		return fmt.Errorf("saving tag %s: %w", t.ID, err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (*event.Event, error) {
	var (
		e       event.Event
		startMs int64
		endMs   int64
	)
	if err := sc.Scan(&e.ID, &e.RowID, &startMs, &endMs, &e.TagID, &e.Title, &e.Details); err != nil {
		return nil, err
	}
	e.Start = time.UnixMilli(startMs)
	e.End = time.UnixMilli(endMs)
	e.LaneSpan = 1
	return &e, nil
}
