package tui

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/commands"
	"github.com/javiermolinar/weekgrid/internal/tui/theme"
)

// Update handles messages and updates the model. Board changes made while
// handling msg are persisted as one batch.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	flush := m.flushChanges()
	if m.deferredLoad != nil && !m.interacting() {
		cmd = tea.Batch(cmd, m.applyWeek(*m.deferredLoad))
	}
	return m, tea.Batch(cmd, flush)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.titleInput.Width = max(msg.Width-len(m.titleInput.Prompt)-2, 10)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.BlurMsg:
		if m.interacting() {
			m.abortInteractions()
			m.logger.Debug("gesture aborted", "reason", "focus lost")
		}
		return m, nil

	case commands.WeekLoadedMsg:
		start, _ := m.board.Range()
		if !msg.WeekStart.Equal(start) {
			// Stale response for a week we already left.
			return m, nil
		}
		if m.interacting() {
			m.deferredLoad = &msg
			return m, nil
		}
		return m, m.applyWeek(msg)

	case commands.ChangesSavedMsg:
		m.inflight = slices.DeleteFunc(slices.Clone(m.inflight), func(b sentBatch) bool {
			return b.seq == msg.Seq
		})
		if msg.Err != nil {
			return m, errCmd(msg.Err)
		}
		m.logger.Debug("changes saved", "count", msg.Count)
		return m, nil

	case commands.ConfigUpdatedMsg:
		cmd := m.applyConfig(msg.Update)
		return m, tea.Batch(cmd, commands.WaitForConfig(m.configUpdates))

	case commands.CopiedMsg:
		return m, statusCmd("Copied to clipboard")

	case commands.ErrMsg:
		m.logger.Error("tui", "err", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusErr = true
		m.statusTime = m.now().Add(5 * time.Second)
		return m, tea.Tick(5*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusErr = false
		m.statusTime = m.now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// applyWeek replaces the board with a loaded week, replaying the changes
// the snapshot may not contain yet.
func (m *Model) applyWeek(msg commands.WeekLoadedMsg) tea.Cmd {
	m.loading = false
	m.deferredLoad = nil
	m.tags = msg.Tags
	b, err := m.newBoard(m.weekStart)
	if err != nil {
		return errCmd(err)
	}
	m.board = b
	m.resetInteractions()

	events := replayChanges(msg.Events, m.replay)
	m.replay = nil
	if skipped := b.Load(events); len(skipped) > 0 {
		m.logger.Warn("events outside the visible rows", "count", len(skipped), "week", m.weekStart.Format(dateutil.DateFormat))
	}
	return nil
}

// replayChanges applies changes in order on top of a loaded snapshot.
// Changes already contained in the snapshot apply as no-ops.
func replayChanges(events []*event.Event, changes []event.Change) []*event.Event {
	if len(changes) == 0 {
		return events
	}
	out := slices.Clone(events)
	index := make(map[string]int, len(out))
	for i, e := range out {
		index[e.ID] = i
	}
	for _, c := range changes {
		i, ok := index[c.EventID]
		switch {
		case c.Kind == event.ChangeDeleted:
			if ok {
				out[i] = nil
				delete(index, c.EventID)
			}
		case c.Event == nil:
		case ok:
			out[i] = c.Event.Clone()
		default:
			index[c.EventID] = len(out)
			out = append(out, c.Event.Clone())
		}
	}
	return slices.DeleteFunc(out, func(e *event.Event) bool { return e == nil })
}

// flushChanges turns queued board changes into one persistence command.
func (m *Model) flushChanges() tea.Cmd {
	changes := m.pending.drain()
	if len(changes) == 0 || m.repo == nil {
		return nil
	}
	for _, c := range changes {
		m.logger.Debug("board change", "kind", c.Kind, "event_id", c.EventID, "row", c.RowID)
	}
	m.batchSeq++
	m.inflight = append(slices.Clone(m.inflight), sentBatch{seq: m.batchSeq, changes: changes})
	if m.loading {
		m.replay = append(slices.Clone(m.replay), changes...)
	}
	return commands.PersistChanges(m.repo, m.batchSeq, changes)
}

// applyConfig rebuilds theme and board from a reloaded configuration,
// keeping the events currently on screen.
func (m *Model) applyConfig(u config.Update) tea.Cmd {
	if u.Err != nil {
		return errCmd(fmt.Errorf("config reload: %w", u.Err))
	}

	prev := m.config
	m.config = u.Config
	b, err := m.newBoard(m.weekStart)
	if err != nil {
		m.config = prev
		return errCmd(err)
	}

	events := m.board.Events()
	m.abortInteractions()
	m.board = b
	b.Load(events)
	m.layout()

	if t, err := theme.Load(u.Config.UI.Theme); err == nil {
		m.theme = t
		m.styles = NewStyles(t)
	}
	m.logger.Info("config applied", "theme", m.theme.Name, "snap_minutes", u.Config.Grid.SnapMinutes)

	// The new window may expose events the old one did not load.
	return tea.Batch(statusCmd("Config reloaded"), m.loadWeek())
}

// switchWeek drops any gesture and loads the week starting at weekStart.
func (m Model) switchWeek(weekStart time.Time) (Model, tea.Cmd) {
	b, err := m.newBoard(weekStart)
	if err != nil {
		return m, errCmd(err)
	}
	m.abortInteractions()
	m.weekStart = weekStart
	m.board = b
	m.selected = ""
	return m, m.loadWeek()
}

// layout recomputes the number of terminal lines per day row.
func (m *Model) layout() {
	rows := len(m.board.Rows())
	if rows == 0 || m.height <= chromeLines {
		m.rowLines = 1
		return
	}
	m.rowLines = min(max((m.height-chromeLines)/rows, 1), maxRowLines)
}

// interacting reports whether a pointer gesture is in progress.
func (m Model) interacting() bool {
	return m.board.Drag().Active() || m.resize != nil || m.press != nil
}

// abortInteractions ends every gesture without mutating events.
func (m *Model) abortInteractions() {
	m.board.Abort()
	m.resetInteractions()
}

func (m *Model) resetInteractions() {
	m.press = nil
	m.resize = nil
	m.dropTarget = ""
}

func (m Model) selectedEvent() (*board.Row, *event.Event, bool) {
	if m.selected == "" {
		return nil, nil, false
	}
	return m.board.FindEvent(m.selected)
}

func weekOf(t time.Time) time.Time {
	monday, _ := dateutil.WeekRange(t)
	return monday
}

func statusCmd(msg string) tea.Cmd {
	return func() tea.Msg {
		return commands.StatusMsgCmd{Msg: msg}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return commands.ErrMsg{Err: err}
	}
}
