// Package tui provides the terminal user interface for weekgrid.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/commands"
	"github.com/javiermolinar/weekgrid/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal    Mode = iota
	ModeEditTitle      // Editing the title of the selected event
	ModeHelp           // Help overlay visible
)

// Terminal layout.
const (
	titleLine    = 0
	axisLine     = 1
	gridTop      = 2
	chromeLines  = 3 // title, axis, footer
	maxRowLines  = 4
	edgeColumns  = 1
	doubleClick  = 400 * time.Millisecond
	minGridWidth = 40
)

// changeQueue collects board notifications until the next flush.
// The board observer appends; Update drains.
type changeQueue struct {
	items []event.Change
}

func (q *changeQueue) add(c event.Change) {
	q.items = append(q.items, c)
}

func (q *changeQueue) drain() []event.Change {
	items := q.items
	q.items = nil
	return items
}

// sentBatch is a change batch handed to the repository and not yet
// acknowledged.
type sentBatch struct {
	seq     int
	changes []event.Change
}

// pressState is a press on an event body that has not turned into a drag yet.
type pressState struct {
	rowID   string
	eventID string
	x, y    int
}

type clickState struct {
	rowID string
	x, y  int
	at    time.Time
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   event.Repository
	config *config.Config
	logger *log.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Board state
	board     *board.Board
	tags      event.Tags
	pending   *changeQueue
	weekStart time.Time
	loading   bool

	// Persistence bookkeeping. A week load may read the database before
	// batches still in flight are written, so those batches and every
	// change made while the load is outstanding are replayed onto the
	// loaded snapshot. A load that arrives mid-gesture waits for it to end.
	batchSeq     int
	inflight     []sentBatch
	replay       []event.Change
	deferredLoad *commands.WeekLoadedMsg

	// Interaction state
	mode       Mode
	selected   string
	press      *pressState
	resize     *board.ResizeSession
	dropTarget string
	lastClick  clickState

	// Components
	titleInput textinput.Model
	help       help.Model
	keys       keyMap

	// Terminal dimensions
	width    int
	height   int
	rowLines int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time

	configUpdates <-chan config.Update
	now           func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger used by the model and its board.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithConfigUpdates subscribes the model to config reloads.
func WithConfigUpdates(updates <-chan config.Update) ModelOption {
	return func(m *Model) {
		m.configUpdates = updates
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithWeek opens the board on the week containing t.
func WithWeek(t time.Time) ModelOption {
	return func(m *Model) {
		m.weekStart, _ = dateutil.WeekRange(t)
	}
}

// New creates a new TUI model.
func New(repo event.Repository, cfg *config.Config, opts ...ModelOption) (*Model, error) {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = event.DefaultTitle
	ti.CharLimit = 120
	ti.Prompt = "title: "

	m := &Model{
		repo:       repo,
		config:     cfg,
		logger:     log.Default(),
		theme:      t,
		styles:     NewStyles(t),
		pending:    &changeQueue{},
		mode:       ModeNormal,
		titleInput: ti,
		help:       help.New(),
		keys:       defaultKeyMap(),
		rowLines:   1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.weekStart.IsZero() {
		m.weekStart, _ = dateutil.WeekRange(m.now())
	}

	b, err := m.newBoard(m.weekStart)
	if err != nil {
		return nil, err
	}
	m.board = b
	m.loading = repo != nil
	return m, nil
}

// newBoard builds an empty board for weekStart from the current config.
func (m *Model) newBoard(weekStart time.Time) (*board.Board, error) {
	bcfg, err := m.config.Board()
	if err != nil {
		return nil, fmt.Errorf("board config: %w", err)
	}
	return board.NewWeek(weekStart, bcfg,
		board.WithBoardObserver(m.pending.add),
		board.WithBoardLogger(m.logger),
	)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadWeek(), commands.WaitForConfig(m.configUpdates))
}

// loadWeek issues a load of the board's week.
func (m *Model) loadWeek() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	m.loading = true
	m.deferredLoad = nil
	m.replay = nil
	for _, b := range m.inflight {
		m.replay = append(m.replay, b.changes...)
	}
	start, end := m.board.Range()
	return commands.LoadWeek(m.repo, start, end)
}

// Run starts the TUI.
func Run(repo event.Repository, cfg *config.Config, opts ...ModelOption) error {
	model, err := New(repo, cfg, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	_, err = p.Run()
	return err
}
