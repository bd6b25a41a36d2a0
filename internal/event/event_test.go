package event

import (
	"errors"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2030, 1, 7, h, m, 0, 0, time.UTC)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"valid", "e1", at(9, 0), at(10, 0), nil},
		{"empty id", "  ", at(9, 0), at(10, 0), ErrEmptyID},
		{"zero length", "e1", at(9, 0), at(9, 0), ErrEndBeforeStart},
		{"reversed", "e1", at(10, 0), at(9, 0), ErrEndBeforeStart},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(tc.id, "mon", tc.start, tc.end, "t1", "Focus")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.LaneSpan != 1 {
				t.Errorf("LaneSpan = %d, want 1", e.LaneSpan)
			}
		})
	}
}

func TestEvent_Overlaps(t *testing.T) {
	a := &Event{ID: "a", Start: at(9, 0), End: at(10, 0)}
	tests := []struct {
		name  string
		other *Event
		want  bool
	}{
		{"nil", nil, false},
		{"inside", &Event{Start: at(9, 15), End: at(9, 45)}, true},
		{"touching end", &Event{Start: at(10, 0), End: at(11, 0)}, false},
		{"touching start", &Event{Start: at(8, 0), End: at(9, 0)}, false},
		{"straddling", &Event{Start: at(8, 30), End: at(9, 30)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvent_CloneDoesNotAlias(t *testing.T) {
	e := &Event{ID: "a", Title: "Focus", Start: at(9, 0), End: at(10, 0)}
	c := e.Clone()
	c.Title = "Changed"
	if e.Title != "Focus" {
		t.Errorf("clone mutated original title to %q", e.Title)
	}
}

func TestEvent_TimeLabel(t *testing.T) {
	e := &Event{Start: at(9, 5), End: at(10, 30)}
	if got := e.TimeLabel(); got != "09:05 - 10:30" {
		t.Errorf("TimeLabel = %q", got)
	}
}

func TestTags_LookupFallsBack(t *testing.T) {
	tags := Tags(DefaultTags())
	if tag, ok := tags.Lookup("t2"); !ok || tag.Name != "Study" {
		t.Errorf("Lookup(t2) = %+v, %v", tag, ok)
	}
	tag, ok := tags.Lookup("missing")
	if ok {
		t.Error("expected unknown tag to report not found")
	}
	if tag != FallbackTag {
		t.Errorf("expected fallback tag, got %+v", tag)
	}
}

func TestTags_Next(t *testing.T) {
	tags := Tags(DefaultTags())
	if got := tags.Next("t1"); got != "t2" {
		t.Errorf("Next(t1) = %q, want t2", got)
	}
	if got := tags.Next("t3"); got != "t1" {
		t.Errorf("Next(t3) = %q, want t1 (wrap)", got)
	}
	if got := tags.Next("unknown"); got != "t1" {
		t.Errorf("Next(unknown) = %q, want t1", got)
	}
	if got := Tags(nil).Next("t1"); got != "" {
		t.Errorf("Next on empty = %q, want empty", got)
	}
}

func TestNewChange_DeletedHasNoSnapshot(t *testing.T) {
	e := &Event{ID: "a", RowID: "mon", Start: at(9, 0), End: at(10, 0), LaneIndex: 2}
	c := NewChange(ChangeDeleted, e)
	if c.Event != nil {
		t.Error("expected nil snapshot for deletions")
	}
	c = NewChange(ChangeMoved, e)
	if c.Event == nil || c.Event == e {
		t.Fatal("expected detached snapshot for moves")
	}
	if c.NewLaneIndex != 2 || c.RowID != "mon" {
		t.Errorf("unexpected change %+v", c)
	}
}
