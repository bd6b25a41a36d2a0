package tui

import (
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/commands"
)

func TestKeys_CycleSelectionInTimeOrder(t *testing.T) {
	m, _ := newTestModel(t,
		mustEvent(t, "late", "mon", day(0, 15, 0), day(0, 16, 0)),
		mustEvent(t, "early", "mon", day(0, 9, 0), day(0, 10, 0)),
		mustEvent(t, "tue", "tue", day(1, 9, 0), day(1, 10, 0)),
	)

	var got []string
	for range 4 {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
		got = append(got, m.selected)
	}
	want := []string{"early", "late", "tue", "early"}
	if !slices.Equal(got, want) {
		t.Fatalf("selection order = %v, want %v", got, want)
	}

	m = send(t, m, runes("k"))
	if m.selected != "tue" {
		t.Fatalf("k selected %q, want tue", m.selected)
	}
}

func TestKeys_TagCyclesAndPersists(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	m.selected = "e1"

	m = send(t, m, runes("t"))
	_, e, _ := m.board.FindEvent("e1")
	if e.TagID != "t2" {
		t.Fatalf("tag = %q, want t2", e.TagID)
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeUpdated}) {
		t.Fatalf("persisted = %v, want [updated]", got)
	}
}

func TestKeys_ShiftAndResizeStayInWindow(t *testing.T) {
	m, _ := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 8, 0), day(0, 8, 20)))
	m.selected = "e1"

	m = send(t, m, runes("h"))
	_, e, _ := m.board.FindEvent("e1")
	if !e.Start.Equal(day(0, 8, 0)) {
		t.Fatalf("shifted before window start: %s", e.TimeLabel())
	}

	m = send(t, m, runes("l"))
	m = send(t, m, runes("+"))
	_, e, _ = m.board.FindEvent("e1")
	if e.TimeLabel() != "08:10 - 08:40" {
		t.Fatalf("range = %s, want 08:10 - 08:40", e.TimeLabel())
	}

	m = send(t, m, runes("-"))
	m = send(t, m, runes("-"))
	m, msgs := sendMsgs(t, m, runes("-"))
	_, e, _ = m.board.FindEvent("e1")
	if e.Duration() != 10*time.Minute {
		t.Fatalf("duration = %v, want one step", e.Duration())
	}
	if !hasStatus(msgs, "Already at the minimum duration") {
		t.Fatalf("msgs = %v, want minimum duration status", msgs)
	}
}

func TestKeys_NewInFreeSlot(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "busy", "mon", day(0, 8, 0), day(0, 12, 0)))

	m = send(t, m, runes("n"))
	_, first, ok := m.board.FindEvent(m.selected)
	if !ok {
		t.Fatal("n did not select the new event")
	}
	if !first.Start.Equal(day(0, 12, 0)) || first.Duration() != time.Hour {
		t.Fatalf("first = %s %s, want Mon 12:00 - 13:00", first.Start.Format("Mon"), first.TimeLabel())
	}

	m = send(t, m, runes("n"))
	_, second, _ := m.board.FindEvent(m.selected)
	if second.ID == first.ID || !second.Start.Equal(day(0, 13, 0)) {
		t.Fatalf("second = %s, want 13:00 after the selected event", second.TimeLabel())
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeCreated, event.ChangeCreated}) {
		t.Fatalf("persisted = %v, want two creations", got)
	}
}

func TestKeys_EditTitle(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	m.selected = "e1"

	m = send(t, m, runes("e"))
	if m.mode != ModeEditTitle {
		t.Fatalf("mode = %v, want edit", m.mode)
	}
	if got := m.titleInput.Value(); got != "e1" {
		t.Fatalf("input = %q, want current title", got)
	}

	// Typing "q" edits the title instead of quitting.
	m = send(t, m, runes("q"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	_, e, _ := m.board.FindEvent("e1")
	if e.Title != "e1q" {
		t.Fatalf("title = %q, want e1q", e.Title)
	}
	if len(repo.applied) != 1 {
		t.Fatalf("batches = %d, want 1", len(repo.applied))
	}
}

func TestKeys_EditTitleEscapeKeepsTitle(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	m.selected = "e1"

	m = send(t, m, runes("e"))
	m = send(t, m, runes("zzz"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	_, e, _ := m.board.FindEvent("e1")
	if e.Title != "e1" {
		t.Fatalf("title = %q, want unchanged", e.Title)
	}
	if len(repo.applied) != 0 {
		t.Fatal("escape persisted a change")
	}
}

func TestKeys_DeleteSelected(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	m.selected = "e1"

	m = send(t, m, runes("x"))
	if _, _, ok := m.board.FindEvent("e1"); ok {
		t.Fatal("event still on the board")
	}
	if m.selected != "" {
		t.Fatalf("selected = %q, want none", m.selected)
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeDeleted}) {
		t.Fatalf("persisted = %v, want [deleted]", got)
	}
}

func TestKeys_WeekNavigation(t *testing.T) {
	m, _ := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))

	next, cmd := m.Update(runes("]"))
	m = next.(Model)
	if !m.weekStart.Equal(day(7, 0, 0)) {
		t.Fatalf("week start = %v, want next monday", m.weekStart)
	}
	if !m.loading || len(m.board.Events()) != 0 {
		t.Fatal("expected an empty loading board")
	}
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v, want one load", msgs)
	}
	loaded, ok := msgs[0].(commands.WeekLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want WeekLoadedMsg", msgs[0])
	}
	if !loaded.WeekStart.Equal(day(7, 8, 0)) {
		t.Fatalf("load start = %v, want next monday 08:00", loaded.WeekStart)
	}

	m = send(t, m, runes("."))
	if !m.weekStart.Equal(day(0, 0, 0)) {
		t.Fatalf("week start = %v, want current week", m.weekStart)
	}
}

func TestKeys_EscapeCancelsDrag(t *testing.T) {
	m, _ := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))

	m = send(t, m, press(bodyCol, rowLine(m, 0)))
	m = send(t, m, motion(bodyCol, rowLine(m, 1)))
	m, msgs := sendMsgs(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	if m.interacting() {
		t.Fatal("drag survived escape")
	}
	if !hasStatus(msgs, "Cancelled") {
		t.Fatalf("msgs = %v, want cancel status", msgs)
	}
	if m.selected != "e1" {
		t.Fatal("escape during a drag should keep the selection")
	}
}

func TestKeys_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("?"))
	if m.mode != ModeHelp {
		t.Fatalf("mode = %v, want help", m.mode)
	}
	m = send(t, m, runes("q"))
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v, want normal after q in help", m.mode)
	}
}

func TestCopyText(t *testing.T) {
	e := mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0))
	e.Title = "Standup"
	e.Details = "room 4"

	got := copyText(e, event.DefaultTags())
	want := "Mon Jan 7 09:00 - 10:00 Standup [💼 Work]\nroom 4"
	if got != want {
		t.Fatalf("copyText = %q, want %q", got, want)
	}
}
