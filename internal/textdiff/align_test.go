package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want EditScript
	}{
		{name: "both empty", a: "", b: "", want: nil},
		{name: "equal", a: "abc", b: "abc", want: EditScript{{OpEqual, 3}}},
		{name: "insert all", a: "", b: "ab", want: EditScript{{OpInsert, 2}}},
		{name: "delete all", a: "ab", b: "", want: EditScript{{OpDelete, 2}}},
		{name: "append word", a: "cat ", b: "cat sat", want: EditScript{{OpEqual, 4}, {OpInsert, 3}}},
		{name: "one letter", a: "quick brown fox jumps", b: "quick brown fox jukps", want: EditScript{{OpEqual, 18}, {OpDelete, 1}, {OpInsert, 1}, {OpEqual, 2}}},
		{name: "replace", a: "the cat", b: "the bat", want: EditScript{{OpEqual, 4}, {OpDelete, 1}, {OpInsert, 1}, {OpEqual, 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Align([]rune(tc.a), []rune(tc.b))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAlign_ScriptInvariants(t *testing.T) {
	pairs := [][2]string{
		{"The quick brown fox", "The quikc brown fax jumped"},
		{"mouse", "sofas"},
		{"Hello world", "Goodbye world"},
		{"aaaa bbbb cccc", "bbbb aaaa cccc dddd"},
		{"日本語のテキスト", "日本のテキスト"},
		{"", "x"},
	}
	for _, p := range pairs {
		a, b := []rune(p[0]), []rune(p[1])
		s := Align(a, b)
		assert.Equal(t, len(a), s.OldLen(), "%q -> %q", p[0], p[1])
		assert.Equal(t, len(b), s.NewLen(), "%q -> %q", p[0], p[1])
		for i, op := range s {
			assert.Positive(t, op.Len)
			if i > 0 {
				assert.NotEqual(t, s[i-1].Kind, op.Kind)
			}
		}
	}
}

func TestCleanupSemantic_Idempotent(t *testing.T) {
	pairs := [][2]string{
		{"the cat sat", "the bat sat"},
		{"mouse", "sofas"},
		{"Hello world", "Goodbye world"},
		{"quick brown fox jumps", "quick brown fox jukps"},
	}
	for _, p := range pairs {
		a, b := []rune(p[0]), []rune(p[1])
		once := Align(a, b)
		twice := CleanupSemantic(once, a, b)
		assert.Equal(t, once, twice, "%q -> %q", p[0], p[1])
	}
}

func TestCleanupSemantic_AbsorbsTinyEquality(t *testing.T) {
	// A one-rune equality between two larger edits is noise; cleanup folds it into a single delete/insert pair.
	a := []rune("abcXdef")
	b := []rune("uvwXyz")
	s := Align(a, b)
	assert.Equal(t, EditScript{{OpDelete, 7}, {OpInsert, 6}}, s)
}

func TestAlignWords(t *testing.T) {
	got := AlignWords([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	assert.Equal(t, EditScript{{OpEqual, 1}, {OpDelete, 1}, {OpInsert, 1}, {OpEqual, 1}}, got)

	got = AlignWords([]string{"b", "c"}, []string{"a", "b", "c"})
	assert.Equal(t, EditScript{{OpInsert, 1}, {OpEqual, 2}}, got)

	got = AlignWords(nil, nil)
	assert.Empty(t, got)
}

func TestEditScript_MustCoverPanics(t *testing.T) {
	assert.Panics(t, func() { EditScript{{OpEqual, 2}}.mustCover(3, 2) })
	assert.Panics(t, func() { EditScript{{OpInsert, 2}}.mustCover(0, 1) })
	assert.Panics(t, func() { EditScript{{OpEqual, 0}}.mustCover(0, 0) })
	require.NotPanics(t, func() { EditScript{{OpEqual, 1}, {OpDelete, 2}, {OpInsert, 3}}.mustCover(3, 4) })
}

func TestCleanupSemantic_RejectsForeignScript(t *testing.T) {
	assert.Panics(t, func() {
		CleanupSemantic(EditScript{{OpEqual, 3}}, []rune("abc"), []rune("abd"))
	})
}
