package event

// Tag is a category that colors events. Colors are stored as HSL components
// so the background, border and text shades share one hue.
type Tag struct {
	ID          string
	Name        string
	Emoji       string
	Hue         float64 // 0-360
	BgSat       float64 // 0-100
	BgLight     float64 // 0-100
	BorderSat   float64 // 0-100
	BorderLight float64 // 0-100
	TextLight   float64 // 0-100
}

// FallbackTag is used when an event references an unknown tag.
var FallbackTag = Tag{
	ID:          "",
	Name:        "Untagged",
	Emoji:       "•",
	Hue:         220,
	BgSat:       30,
	BgLight:     90,
	BorderSat:   40,
	BorderLight: 45,
	TextLight:   20,
}

// DefaultTags are seeded into a fresh database.
func DefaultTags() []Tag {
	return []Tag{
		{ID: "t1", Name: "Work", Emoji: "💼", Hue: 210, BgSat: 80, BgLight: 90, BorderSat: 80, BorderLight: 40, TextLight: 20},
		{ID: "t2", Name: "Study", Emoji: "📚", Hue: 120, BgSat: 70, BgLight: 90, BorderSat: 70, BorderLight: 40, TextLight: 20},
		{ID: "t3", Name: "Break", Emoji: "☕", Hue: 30, BgSat: 90, BgLight: 92, BorderSat: 90, BorderLight: 50, TextLight: 20},
	}
}

// Tags is an ordered tag collection with fallback lookup.
type Tags []Tag

// Lookup returns the tag with the given id, or FallbackTag.
// The second result reports whether the id was found.
func (ts Tags) Lookup(id string) (Tag, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return FallbackTag, false
}

// First returns the id of the first tag, or "" when empty.
func (ts Tags) First() string {
	if len(ts) == 0 {
		return ""
	}
	return ts[0].ID
}

// Next returns the id following id in order, wrapping around.
// Unknown ids map to the first tag.
func (ts Tags) Next(id string) string {
	for i, t := range ts {
		if t.ID == id {
			return ts[(i+1)%len(ts)].ID
		}
	}
	return ts.First()
}
