package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
)

var now = time.Now

// weekBoard builds the board of the week containing day and loads its
// events. Changes made on the board are reported to observer.
func weekBoard(ctx context.Context, repo event.Repository, cfg *config.Config, day time.Time, observer event.Observer) (*board.Board, event.Tags, error) {
	bcfg, err := cfg.Board()
	if err != nil {
		return nil, nil, fmt.Errorf("board config: %w", err)
	}
	monday, _ := dateutil.WeekRange(day)
	b, err := board.NewWeek(monday, bcfg, board.WithBoardObserver(observer))
	if err != nil {
		return nil, nil, err
	}

	start, end := b.Range()
	events, err := repo.ListEventsByRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("listing events: %w", err)
	}
	b.Load(events)

	tags, err := repo.ListTags(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing tags: %w", err)
	}
	return b, tags, nil
}

// dayRow returns the row of day, or an error naming the configured days.
func dayRow(b *board.Board, day time.Time) (*board.Row, error) {
	row, ok := b.Row(board.RowIDFor(day.Weekday()))
	if !ok {
		return nil, fmt.Errorf("%s is not a scheduled day (days: %s)",
			day.Format("Monday"), strings.Join(rowIDs(b), ", "))
	}
	return row, nil
}

func rowIDs(b *board.Board) []string {
	rows := b.Rows()
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID()
	}
	return ids
}

// resolveTag finds a tag by id or by case-insensitive name. An empty
// query selects the first tag.
func resolveTag(tags event.Tags, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return tags.First(), nil
	}
	for _, t := range tags {
		if t.ID == query || strings.EqualFold(t.Name, query) {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", event.ErrTagNotFound, query)
}
