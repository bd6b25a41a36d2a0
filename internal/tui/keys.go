package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/scheduler"
	"github.com/javiermolinar/weekgrid/internal/tui/commands"
)

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
	Next     key.Binding
	Prev     key.Binding
	New      key.Binding
	Earlier  key.Binding
	Later    key.Binding
	Shorter  key.Binding
	Longer   key.Binding
	Title    key.Binding
	Tag      key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Today:    key.NewBinding(key.WithKeys("."), key.WithHelp(".", "this week")),
		Next:     key.NewBinding(key.WithKeys("tab", "j"), key.WithHelp("j", "next event")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "k"), key.WithHelp("k", "prev event")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new in free slot")),
		Earlier:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "shift")),
		Later:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "later")),
		Shorter:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-/+", "resize")),
		Longer:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer")),
		Title:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "title")),
		Tag:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tag")),
		Delete:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.PrevWeek, k.NextWeek, k.Title, k.Tag, k.Delete, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevWeek, k.NextWeek, k.Today, k.Next, k.Prev},
		{k.New, k.Earlier, k.Shorter, k.Title, k.Tag},
		{k.Delete, k.Copy, k.Cancel, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.logger.Debug("key", "key", msg.String(), "mode", m.mode)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeEditTitle:
		return m.handleTitleKeys(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.mode = ModeNormal
		}
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.interacting() {
			m.abortInteractions()
			return m, statusCmd("Cancelled")
		}
		m.selected = ""
		return m, nil

	case key.Matches(msg, m.keys.PrevWeek):
		return m.switchWeek(m.weekStart.AddDate(0, 0, -7))

	case key.Matches(msg, m.keys.NextWeek):
		return m.switchWeek(m.weekStart.AddDate(0, 0, 7))

	case key.Matches(msg, m.keys.Today):
		return m.switchWeek(weekOf(m.now()))

	case key.Matches(msg, m.keys.Next):
		m.selected = m.cycleSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.selected = m.cycleSelection(-1)
		return m, nil
	}

	if m.interacting() {
		return m, nil
	}

	if key.Matches(msg, m.keys.New) {
		return m.createInFreeSlot()
	}

	row, e, ok := m.selectedEvent()
	if !ok {
		return m, nil
	}
	step := row.Grid().Step

	switch {
	case key.Matches(msg, m.keys.Earlier):
		if e.Start.Add(-step).Before(row.Window().Start) {
			return m, nil
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.Start = ev.Start.Add(-step)
			ev.End = ev.End.Add(-step)
		})

	case key.Matches(msg, m.keys.Later):
		if e.End.Add(step).After(row.Window().End) {
			return m, nil
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.Start = ev.Start.Add(step)
			ev.End = ev.End.Add(step)
		})

	case key.Matches(msg, m.keys.Shorter):
		if e.Duration() <= step {
			return m, statusCmd("Already at the minimum duration")
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.End = ev.End.Add(-step)
		})

	case key.Matches(msg, m.keys.Longer):
		if e.End.Add(step).After(row.Window().End) {
			return m, nil
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.End = ev.End.Add(step)
		})

	case key.Matches(msg, m.keys.Title):
		m.mode = ModeEditTitle
		m.titleInput.SetValue(e.Title)
		m.titleInput.CursorEnd()
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.Tag):
		next := m.tags.Next(e.TagID)
		if next == "" {
			return m, statusCmd("No tags defined")
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.TagID = next
		})

	case key.Matches(msg, m.keys.Delete):
		if err := row.DeleteEvent(e.ID); err != nil {
			return m, errCmd(err)
		}
		m.selected = ""
		return m, statusCmd(fmt.Sprintf("Deleted %q", e.Title))

	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyText(copyText(e, m.tags))
	}

	return m, nil
}

// createInFreeSlot creates an event in the first free slot after the
// selected event, or after now when nothing is selected.
func (m Model) createInFreeSlot() (Model, tea.Cmd) {
	from := m.now()
	if _, e, ok := m.selectedEvent(); ok {
		from = e.End
	}
	if start, _ := m.board.Range(); from.Before(start) {
		from = start
	}

	slot, ok := scheduler.NextFree(m.board, from, m.board.Config().DefaultDuration)
	if !ok {
		return m, statusCmd("No free slot left this week")
	}
	e, err := slot.Row.CreateEventAt(slot.Start, m.tags.First())
	if err != nil {
		return m, errCmd(err)
	}
	m.selected = e.ID
	return m, statusCmd(fmt.Sprintf("Created %s %s", e.Start.Format("Mon"), e.TimeLabel()))
}

// handleTitleKeys handles the title editor.
func (m Model) handleTitleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.titleInput.Blur()
		return m, nil

	case "enter":
		m.mode = ModeNormal
		m.titleInput.Blur()
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			title = event.DefaultTitle
		}
		row, e, ok := m.selectedEvent()
		if !ok {
			return m, nil
		}
		return m.updateSelected(row, e.ID, func(ev *event.Event) {
			ev.Title = title
		})
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m Model) updateSelected(row *board.Row, id string, fn func(*event.Event)) (Model, tea.Cmd) {
	if _, err := row.UpdateEvent(id, fn); err != nil {
		if errors.Is(err, event.ErrEndBeforeStart) {
			return m, statusCmd("Event would be empty")
		}
		return m, errCmd(err)
	}
	return m, nil
}

// cycleSelection moves the selection through the board events in row then
// time order.
func (m Model) cycleSelection(delta int) string {
	var ids []string
	for _, row := range m.board.Rows() {
		events := row.Events()
		slices.SortStableFunc(events, func(a, b *event.Event) int {
			return a.Start.Compare(b.Start)
		})
		for _, e := range events {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	for i, id := range ids {
		if id == m.selected {
			return ids[(i+delta+len(ids))%len(ids)]
		}
	}
	if delta < 0 {
		return ids[len(ids)-1]
	}
	return ids[0]
}

func copyText(e *event.Event, tags event.Tags) string {
	text := fmt.Sprintf("%s %s %s [%s]", e.Start.Format("Mon Jan 2"), e.TimeLabel(), e.Title, tagLabel(tags, e.TagID))
	if e.Details != "" {
		text += "\n" + e.Details
	}
	return text
}
