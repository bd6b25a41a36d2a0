package integration

import (
	"context"
	"testing"
	"time"
)

// TestReloadAcrossZones stores events in a zone far from UTC, where the
// day window starts on the previous UTC date, and checks they load back
// into the same rows at the same wall clock times.
func TestReloadAcrossZones(t *testing.T) {
	for _, offset := range []int{13, -11} {
		zone := time.FixedZone("test", offset*3600)
		prev := time.Local
		time.Local = zone

		func() {
			defer func() { time.Local = prev }()

			repo := openRepo(t)
			monday := time.Date(2030, 1, 7, 0, 0, 0, 0, zone)

			s := newSession(t, repo, monday)
			for _, id := range []string{"mon", "fri"} {
				row := s.row(id)
				if _, err := row.CreateEventAt(row.Window().Start, "t1"); err != nil {
					t.Fatalf("CreateEventAt: %v", err)
				}
				if _, err := row.CreateEventAt(row.Window().End.Add(-time.Hour), "t3"); err != nil {
					t.Fatalf("CreateEventAt: %v", err)
				}
			}
			s.flush()

			reloaded := newSession(t, repo, monday)
			for _, id := range []string{"mon", "fri"} {
				row := reloaded.row(id)
				if row.Len() != 2 {
					t.Fatalf("UTC%+d: %s has %d events, want 2", offset, id, row.Len())
				}
				for _, e := range row.Events() {
					if e.Start.Location() != zone && e.Start.Location() != time.Local {
						t.Errorf("UTC%+d: %s loaded in %v", offset, e.ID, e.Start.Location())
					}
					if h := e.Start.Hour(); h != 8 && h != 19 {
						t.Errorf("UTC%+d: %s starts at %s", offset, e.ID, e.Start.Format("15:04"))
					}
				}
			}

			start, end := reloaded.board.Range()
			events, err := repo.ListEventsByRange(context.Background(), start, end)
			if err != nil {
				t.Fatalf("ListEventsByRange: %v", err)
			}
			if len(events) != 4 {
				t.Errorf("UTC%+d: range query returned %d events, want 4", offset, len(events))
			}
		}()
	}
}
