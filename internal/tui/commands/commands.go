// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/event"
)

// WeekLoadedMsg is sent when the events and tags of a week are loaded.
type WeekLoadedMsg struct {
	WeekStart time.Time
	Events    []*event.Event
	Tags      event.Tags
}

// ChangesSavedMsg reports the outcome of persisting batch Seq. Err is set
// when the batch was not written.
type ChangesSavedMsg struct {
	Seq   int
	Count int
	Err   error
}

// ConfigUpdatedMsg carries a config reload from the file watcher.
type ConfigUpdatedMsg struct {
	Update config.Update
}

// CopiedMsg is sent after text was written to the clipboard.
type CopiedMsg struct {
	Text string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadWeek loads the events between start and end plus the tag list.
func LoadWeek(repo event.Repository, start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := repo.ListEventsByRange(ctx, start, end)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading week: %w", err)}
		}

		tags, err := repo.ListTags(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tags: %w", err)}
		}

		return WeekLoadedMsg{WeekStart: start, Events: events, Tags: tags}
	}
}

// PersistChanges writes a batch of board changes in one transaction.
func PersistChanges(repo event.Repository, seq int, changes []event.Change) tea.Cmd {
	if len(changes) == 0 {
		return nil
	}
	batch := append([]event.Change(nil), changes...)
	return func() tea.Msg {
		if err := repo.ApplyChanges(context.Background(), batch); err != nil {
			return ChangesSavedMsg{Seq: seq, Err: fmt.Errorf("saving changes: %w", err)}
		}
		return ChangesSavedMsg{Seq: seq, Count: len(batch)}
	}
}

// WaitForConfig blocks until the watcher publishes the next reload.
// It returns nil when updates is nil.
func WaitForConfig(updates <-chan config.Update) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return ConfigUpdatedMsg{Update: u}
	}
}

// CopyText writes text to the system clipboard.
func CopyText(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Text: text}
	}
}
