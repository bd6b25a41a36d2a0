package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/db"
	"github.com/javiermolinar/weekgrid/internal/event"
)

var bounds = board.Rect{X: 0, Y: 0, W: 1000, H: 12}

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// session is a board whose changes are saved the way the TUI saves them:
// queued by the observer and flushed as one batch.
type session struct {
	t       *testing.T
	repo    *db.SQLite
	board   *board.Board
	pending []event.Change
}

func newSession(t *testing.T, repo *db.SQLite, weekStart time.Time) *session {
	t.Helper()
	s := &session{t: t, repo: repo}
	n := 0
	b, err := board.NewWeek(weekStart, board.DefaultConfig(),
		board.WithBoardObserver(func(c event.Change) { s.pending = append(s.pending, c) }),
		board.WithBoardLogger(log.New(io.Discard)),
		board.WithBoardIDGenerator(func() string {
			n++
			return fmt.Sprintf("ev-%d", n)
		}),
	)
	if err != nil {
		t.Fatalf("NewWeek: %v", err)
	}
	s.board = b

	start, end := b.Range()
	events, err := repo.ListEventsByRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("ListEventsByRange: %v", err)
	}
	if skipped := b.Load(events); len(skipped) > 0 {
		t.Fatalf("%d stored events did not fit the board", len(skipped))
	}
	return s
}

func (s *session) row(id string) *board.Row {
	s.t.Helper()
	row, ok := s.board.Row(id)
	if !ok {
		s.t.Fatalf("row %s not found", id)
	}
	return row
}

// flush saves the queued changes and returns their kinds.
func (s *session) flush() []event.ChangeKind {
	s.t.Helper()
	kinds := make([]event.ChangeKind, len(s.pending))
	for i, c := range s.pending {
		kinds[i] = c.Kind
	}
	if err := s.repo.ApplyChanges(context.Background(), s.pending); err != nil {
		s.t.Fatalf("ApplyChanges: %v", err)
	}
	s.pending = nil
	return kinds
}

func pointerAt(row *board.Row, t time.Time) float64 {
	return bounds.X + row.Projector().TimeToGeometry(t, t).X*bounds.W
}

func clock(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func sameKinds(got []event.ChangeKind, want ...event.ChangeKind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// TestFullWorkflow creates, renames, resizes, moves and deletes an event,
// reloading the week from the database between steps.
func TestFullWorkflow(t *testing.T) {
	repo := openRepo(t)
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.Local)
	tuesday := monday.AddDate(0, 0, 1)

	// 1. Create from an empty cell and rename.
	s := newSession(t, repo, monday)
	mon := s.row("mon")
	created, err := mon.CreateEventAt(clock(monday, 9, 4), "t1")
	if err != nil {
		t.Fatalf("CreateEventAt: %v", err)
	}
	if _, err := mon.UpdateEvent(created.ID, func(e *event.Event) { e.Title = "Planning" }); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if got := s.flush(); !sameKinds(got, event.ChangeCreated, event.ChangeUpdated) {
		t.Errorf("changes = %v", got)
	}

	// 2. Resize the end edge.
	s = newSession(t, repo, monday)
	mon = s.row("mon")
	rs, err := mon.BeginResize(created.ID, board.SideEnd, bounds, pointerAt(mon, clock(monday, 10, 0)))
	if err != nil {
		t.Fatalf("BeginResize: %v", err)
	}
	rs.Move(pointerAt(mon, clock(monday, 11, 30)))
	if _, err := rs.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := s.flush(); !sameKinds(got, event.ChangeResized) {
		t.Errorf("changes = %v", got)
	}

	// 3. Drag to Tuesday afternoon.
	s = newSession(t, repo, monday)
	mon, tue := s.row("mon"), s.row("tue")
	drag := s.board.Drag()
	if err := mon.StartDrag(drag, created.ID, bounds, pointerAt(mon, clock(monday, 9, 0)), 6); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if _, ok := tue.DragOver(drag, bounds, pointerAt(tue, clock(tuesday, 14, 0)), 6); !ok {
		t.Fatal("tuesday rejected the drag")
	}
	moved, err := tue.Drop(drag, s.board.Registry(), bounds, pointerAt(tue, clock(tuesday, 14, 0)), 6)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	drag.Stop()
	if got := s.flush(); !sameKinds(got, event.ChangeMoved) {
		t.Errorf("changes = %v", got)
	}
	if !moved.Start.Equal(clock(tuesday, 14, 0)) || !moved.End.Equal(clock(tuesday, 16, 30)) {
		t.Errorf("moved range = %s, want 14:00 - 16:30", moved.TimeLabel())
	}

	// 4. Reload: the event lives on Tuesday with its title, tag and duration.
	s = newSession(t, repo, monday)
	if n := s.row("mon").Len(); n != 0 {
		t.Errorf("monday still has %d events", n)
	}
	row, e, ok := s.board.FindEvent(created.ID)
	if !ok || row.ID() != "tue" {
		t.Fatalf("event not found on tuesday")
	}
	if e.Title != "Planning" || e.TagID != "t1" || e.TimeLabel() != "14:00 - 16:30" {
		t.Errorf("reloaded event = %+v", e)
	}

	// 5. A drop on the time axis changes nothing.
	tue = s.row("tue")
	drag = s.board.Drag()
	if err := tue.StartDrag(drag, created.ID, bounds, pointerAt(tue, clock(tuesday, 14, 0)), 6); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	_, err = s.board.Header().Drop(drag, s.board.Registry(), bounds, 500, 0)
	if !errors.Is(err, board.ErrNotDroppable) {
		t.Fatalf("header Drop err = %v, want ErrNotDroppable", err)
	}
	s.board.Abort()
	if len(s.pending) != 0 || tue.Len() != 1 {
		t.Errorf("rejected drop produced %d changes, tuesday has %d events", len(s.pending), tue.Len())
	}

	// 6. Delete.
	if err := tue.DeleteEvent(created.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if got := s.flush(); !sameKinds(got, event.ChangeDeleted) {
		t.Errorf("changes = %v", got)
	}
	if _, err := repo.GetEvent(context.Background(), created.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("GetEvent after delete err = %v, want ErrEventNotFound", err)
	}
}

// TestLanesAfterReload checks that overlapping events are packed the same
// way when the week is loaded back from storage.
func TestLanesAfterReload(t *testing.T) {
	repo := openRepo(t)
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.Local)

	s := newSession(t, repo, monday)
	wed := s.row("wed")
	day := wed.Window().Start.Add(-8 * time.Hour)
	for _, h := range []int{9, 9, 10} {
		e, err := wed.CreateEventAt(clock(day, h, 30), "t2")
		if err != nil {
			t.Fatalf("CreateEventAt: %v", err)
		}
		if _, err := wed.UpdateEvent(e.ID, func(ev *event.Event) { ev.Title = fmt.Sprintf("%02d:30", h) }); err != nil {
			t.Fatalf("UpdateEvent: %v", err)
		}
	}
	s.flush()

	before := lanesByID(s.row("wed"))
	after := lanesByID(newSession(t, repo, monday).row("wed"))
	if len(after) != 3 {
		t.Fatalf("reloaded %d events, want 3", len(after))
	}
	for id, lane := range before {
		if after[id] != lane {
			t.Errorf("%s lane = %d after reload, want %d", id, after[id], lane)
		}
	}
	if before["ev-1"] == before["ev-2"] {
		t.Errorf("overlapping events share lane %d", before["ev-1"])
	}
}

func lanesByID(row *board.Row) map[string]int {
	lanes := make(map[string]int)
	for _, p := range row.Placements() {
		lanes[p.Event.ID] = p.Slot.Lane
	}
	return lanes
}

// TestApplyChangesIsAtomic checks that a failing batch leaves storage
// untouched.
func TestApplyChangesIsAtomic(t *testing.T) {
	repo := openRepo(t)
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.Local)

	good, err := event.New("good", "mon", clock(monday, 9, 0), clock(monday, 10, 0), "t1", "Good")
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	batch := []event.Change{
		event.NewChange(event.ChangeCreated, good),
		{Kind: event.ChangeMoved, EventID: "broken"},
	}
	if err := repo.ApplyChanges(context.Background(), batch); err == nil {
		t.Fatal("expected error for a change without an event")
	}
	if _, err := repo.GetEvent(context.Background(), "good"); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("GetEvent err = %v, want ErrEventNotFound", err)
	}
}
