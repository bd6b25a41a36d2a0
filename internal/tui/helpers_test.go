package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/commands"
)

// Layout used by the tests: 100 columns, five rows of two lines, header
// column of 5 cells and a 08:00-20:00 window, so one column is ~7.6 min.
const (
	testWidth  = 100
	testHeight = chromeLines + 5*2
)

// day returns a time on the week of 2030-01-07, a Monday.
func day(offset, h, m int) time.Time {
	return time.Date(2030, 1, 7+offset, h, m, 0, 0, time.Local)
}

type fakeRepo struct {
	events  []*event.Event
	applied [][]event.Change
}

func (f *fakeRepo) CreateEvent(ctx context.Context, e *event.Event) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepo) SaveEvent(ctx context.Context, e *event.Event) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) DeleteEvent(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) ApplyChanges(ctx context.Context, changes []event.Change) error {
	f.applied = append(f.applied, changes)
	return nil
}

func (f *fakeRepo) ListEventsByRange(ctx context.Context, start, end time.Time) ([]*event.Event, error) {
	return f.events, nil
}

func (f *fakeRepo) ListTags(ctx context.Context) (event.Tags, error) {
	return event.DefaultTags(), nil
}

func (f *fakeRepo) SaveTag(ctx context.Context, t event.Tag) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) Close() error {
	return nil
}

// kinds flattens every persisted change kind.
func (f *fakeRepo) kinds() []event.ChangeKind {
	var out []event.ChangeKind
	for _, batch := range f.applied {
		for _, c := range batch {
			out = append(out, c.Kind)
		}
	}
	return out
}

func mustEvent(t *testing.T, id, rowID string, start, end time.Time) *event.Event {
	t.Helper()
	e, err := event.New(id, rowID, start, end, "t1", id)
	if err != nil {
		t.Fatalf("event.New(%s): %v", id, err)
	}
	return e
}

// newTestModel builds a sized model with events loaded from a fake repo.
func newTestModel(t *testing.T, events ...*event.Event) (Model, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{events: events}
	clock := day(0, 7, 0)

	mp, err := New(repo, config.Default(),
		WithWeek(day(0, 0, 0)),
		WithLogger(log.New(io.Discard)),
		WithClock(func() time.Time { return clock }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := *mp
	m = send(t, m, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})

	start, end := m.board.Range()
	msg := commands.LoadWeek(repo, start, end)()
	m = send(t, m, msg)
	if m.loading {
		t.Fatal("model still loading after WeekLoadedMsg")
	}
	return m, repo
}

// send runs msg through Update and executes the returned commands, except
// timers, without feeding their messages back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	runCmd(cmd)
	return next.(Model)
}

// sendMsgs is like send but returns the messages the commands produced.
func sendMsgs(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), runCmd(cmd)
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil // tea.Tick
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// rowLine returns the first terminal line of the i-th day row.
func rowLine(m Model, i int) int {
	return gridTop + i*m.rowLines
}

func hasStatus(msgs []tea.Msg, want string) bool {
	for _, msg := range msgs {
		if s, ok := msg.(commands.StatusMsgCmd); ok && s.Msg == want {
			return true
		}
	}
	return false
}
