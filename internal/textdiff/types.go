package textdiff

import "unicode"

// Config selects how two texts are compared. It is passed by value into every call.
type Config struct {
	IgnoreCase        bool `json:"ignore_case"`        // fold case before comparing; display keeps the original case
	IgnorePunctuation bool `json:"ignore_punctuation"` // drop punctuation before comparing; display keeps it
	Memoriser         bool `json:"memoriser"`          // bound to the typed length and render context windows
}

// Category is the display category of a Segment.
type Category int

const (
	Unchanged Category = iota // present in both texts (shown as the old text)
	Deleted                   // present only in the old text
	Inserted                  // present only in the new text
	Elided                    // memoriser ellipsis marking omitted words; belongs to neither text
)

func (c Category) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Deleted:
		return "deleted"
	case Inserted:
		return "inserted"
	case Elided:
		return "elided"
	default:
		return "unknown"
	}
}

// MarshalText encodes c by name, so JSON output reads "deleted" rather than 1.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Segment is a contiguous run of raw text tagged with a Category.
type Segment struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Highlighted reports whether s should receive a visual treatment. Deleted and Inserted runs that are entirely whitespace keep their category for accounting but are
// displayed plainly.
func (s Segment) Highlighted() bool {
	if s.Category != Deleted && s.Category != Inserted {
		return false
	}
	return !isAllSpace(s.Text)
}

// Score is a match score over the old side of a rendering.
type Score struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"` // 100*Correct/Total, or 0 when Total is 0. Never rounded.
}

// Window is an inclusive range of word indices rendered in memoriser mode.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Result is the output of ComputeDiff.
type Result struct {
	Segments []Segment `json:"segments"`
	Score    Score     `json:"score"`

	// Windows are the merged context windows (memoriser mode only), over new-text word indices.
	Windows []Window `json:"windows,omitempty"`

	// Windowed is true when memoriser mode chose the windowed rendering over the full bounded rendering.
	Windowed bool `json:"windowed,omitempty"`

	// VirtualSpace is true when a space was appended to the old text before comparison (see ComputeDiff).
	VirtualSpace bool `json:"virtual_space,omitempty"`
}

func isAllSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
