package tui

import (
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
)

// With the test layout, a 09:00-10:00 block spans columns 13 to 20 and
// column 16 is inside its body.
const bodyCol = 16

func TestMouse_DragMovesEventAcrossDays(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	mon, tue := rowLine(m, 0), rowLine(m, 1)

	m = send(t, m, press(bodyCol, mon))
	if m.selected != "e1" {
		t.Fatalf("selected = %q, want e1", m.selected)
	}
	if m.board.Drag().Active() {
		t.Fatal("press alone must not start a drag")
	}

	m = send(t, m, motion(bodyCol, tue))
	if !m.board.Drag().Active() {
		t.Fatal("expected drag after motion")
	}
	if m.dropTarget != "tue" {
		t.Fatalf("drop target = %q, want tue", m.dropTarget)
	}
	row, _ := m.board.Row("tue")
	if _, ok := row.Placeholder(); !ok {
		t.Fatal("expected placeholder on tue")
	}

	m = send(t, m, release(bodyCol, tue))
	if m.board.Drag().Active() {
		t.Fatal("drag still active after release")
	}

	owner, e, ok := m.board.FindEvent("e1")
	if !ok || owner.ID() != "tue" {
		t.Fatalf("owner = %v, want tue", owner)
	}
	if !e.Start.Equal(day(1, 9, 0)) || e.Duration() != time.Hour {
		t.Fatalf("moved to %v (%v), want Tue 09:00 for 1h", e.Start, e.Duration())
	}
	if _, ok := row.Placeholder(); ok {
		t.Fatal("placeholder left after drop")
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeMoved}) {
		t.Fatalf("persisted = %v, want [moved]", got)
	}
}

func TestMouse_DropOnAxisIsRejected(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	mon := rowLine(m, 0)

	m = send(t, m, press(bodyCol, mon))
	m = send(t, m, motion(bodyCol, axisLine))
	if m.dropTarget != "" {
		t.Fatalf("drop target = %q, want none over the axis", m.dropTarget)
	}

	m, msgs := sendMsgs(t, m, release(bodyCol, axisLine))
	if !hasStatus(msgs, "Events cannot be dropped on the time axis") {
		t.Fatalf("msgs = %v, want rejection status", msgs)
	}
	owner, e, ok := m.board.FindEvent("e1")
	if !ok || owner.ID() != "mon" || !e.Start.Equal(day(0, 9, 0)) {
		t.Fatalf("event moved after rejected drop: %v %+v", owner, e)
	}
	if len(repo.applied) != 0 {
		t.Fatalf("persisted %v after rejected drop", repo.kinds())
	}
}

func TestMouse_ReleaseOutsideGridCancels(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))

	m = send(t, m, press(bodyCol, rowLine(m, 0)))
	m = send(t, m, motion(bodyCol, titleLine))
	m, msgs := sendMsgs(t, m, release(bodyCol, titleLine))

	if !hasStatus(msgs, "Move cancelled") {
		t.Fatalf("msgs = %v, want cancel status", msgs)
	}
	if owner, _, _ := m.board.FindEvent("e1"); owner.ID() != "mon" {
		t.Fatalf("owner = %s, want mon", owner.ID())
	}
	if len(repo.applied) != 0 {
		t.Fatal("cancelled move was persisted")
	}
}

func TestMouse_ClickSelectsWithoutMoving(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))

	m = send(t, m, press(bodyCol, rowLine(m, 0)))
	m = send(t, m, release(bodyCol, rowLine(m, 0)))

	if m.selected != "e1" {
		t.Fatalf("selected = %q, want e1", m.selected)
	}
	if m.interacting() {
		t.Fatal("gesture left open after click")
	}
	if len(repo.applied) != 0 {
		t.Fatal("click persisted a change")
	}
}

func TestMouse_ResizeEndEdge(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	mon := rowLine(m, 0)

	m = send(t, m, press(20, mon))
	if m.resize == nil {
		t.Fatal("expected resize session on end edge")
	}
	if m.resize.Snapshot().Side != board.SideEnd {
		t.Fatalf("side = %v, want end", m.resize.Snapshot().Side)
	}

	// Eight columns are ~61 minutes.
	m = send(t, m, motion(28, mon))
	if got := m.resize.Preview().End; !got.Equal(day(0, 11, 0)) {
		t.Fatalf("preview end = %v, want 11:00", got)
	}
	_, e, _ := m.board.FindEvent("e1")
	if !e.End.Equal(day(0, 10, 0)) {
		t.Fatal("event changed before commit")
	}

	m = send(t, m, release(28, mon))
	if m.resize != nil {
		t.Fatal("resize still active after release")
	}
	_, e, _ = m.board.FindEvent("e1")
	if !e.Start.Equal(day(0, 9, 0)) || !e.End.Equal(day(0, 11, 0)) {
		t.Fatalf("range = %s, want 09:00 - 11:00", e.TimeLabel())
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeResized}) {
		t.Fatalf("persisted = %v, want [resized]", got)
	}
}

func TestMouse_ResizeStartEdgeKeepsMinimum(t *testing.T) {
	m, _ := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))
	mon := rowLine(m, 0)

	m = send(t, m, press(13, mon))
	if m.resize == nil || m.resize.Snapshot().Side != board.SideStart {
		t.Fatal("expected start edge resize")
	}
	m = send(t, m, motion(60, mon))
	m = send(t, m, release(60, mon))

	_, e, _ := m.board.FindEvent("e1")
	if !e.End.Equal(day(0, 10, 0)) || e.Duration() != 10*time.Minute {
		t.Fatalf("range = %s, want 09:50 - 10:00", e.TimeLabel())
	}
}

func TestMouse_DoubleClickCreatesEvent(t *testing.T) {
	m, repo := newTestModel(t)
	wed := rowLine(m, 2)

	m = send(t, m, press(50, wed))
	m = send(t, m, release(50, wed))
	if len(m.board.Events()) != 0 {
		t.Fatal("single click created an event")
	}

	m = send(t, m, press(50, wed))
	events := m.board.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	e := events[0]
	if e.RowID != "wed" || e.TagID != "t1" || e.Title != event.DefaultTitle {
		t.Fatalf("created %+v", e)
	}
	if e.Duration() != time.Hour {
		t.Fatalf("duration = %v, want 1h", e.Duration())
	}
	if e.Start.Minute()%10 != 0 {
		t.Fatalf("start %v is not snapped", e.Start)
	}
	if m.selected != e.ID {
		t.Fatalf("selected = %q, want new event", m.selected)
	}
	if got := repo.kinds(); !slices.Equal(got, []event.ChangeKind{event.ChangeCreated}) {
		t.Fatalf("persisted = %v, want [created]", got)
	}
}

func TestMouse_BlurAbortsGesture(t *testing.T) {
	m, repo := newTestModel(t, mustEvent(t, "e1", "mon", day(0, 9, 0), day(0, 10, 0)))

	m = send(t, m, press(bodyCol, rowLine(m, 0)))
	m = send(t, m, motion(bodyCol, rowLine(m, 1)))
	m = send(t, m, tea.BlurMsg{})

	if m.interacting() {
		t.Fatal("gesture survived focus loss")
	}
	for _, row := range m.board.Rows() {
		if _, ok := row.Placeholder(); ok {
			t.Fatalf("placeholder left on %s", row.ID())
		}
	}
	if owner, _, _ := m.board.FindEvent("e1"); owner.ID() != "mon" {
		t.Fatalf("owner = %s, want mon", owner.ID())
	}
	if len(repo.applied) != 0 {
		t.Fatal("aborted drag was persisted")
	}
}

func TestCellSpan(t *testing.T) {
	tests := []struct {
		a, b   float64
		lo, hi int
	}{
		{12.9, 20.8, 13, 21},
		{0, 1, 0, 1},
		{3.2, 3.3, 3, 4},
		{1.5, 3, 1, 3},
	}
	for _, tt := range tests {
		lo, hi := cellSpan(tt.a, tt.b)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("cellSpan(%v, %v) = %d, %d, want %d, %d", tt.a, tt.b, lo, hi, tt.lo, tt.hi)
		}
	}
}
