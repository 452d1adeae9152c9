package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		cfg      Config
		wantComp string
		wantMap  []int
	}{
		{name: "identity", raw: "Ab c", cfg: Config{}, wantComp: "Ab c", wantMap: []int{0, 1, 2, 3}},
		{name: "fold case", raw: "Ab C", cfg: Config{IgnoreCase: true}, wantComp: "ab c", wantMap: []int{0, 1, 2, 3}},
		{name: "strip punctuation", raw: "a, b!", cfg: Config{IgnorePunctuation: true}, wantComp: "a b", wantMap: []int{0, 2, 3}},
		{name: "both", raw: "Hello, World!", cfg: Config{IgnoreCase: true, IgnorePunctuation: true}, wantComp: "hello world", wantMap: []int{0, 1, 2, 3, 4, 6, 7, 8, 9, 10, 11}},
		{name: "leading punctuation", raw: "(x)", cfg: Config{IgnorePunctuation: true}, wantComp: "x", wantMap: []int{1}},
		{name: "only punctuation", raw: "!?!", cfg: Config{IgnorePunctuation: true}, wantComp: "", wantMap: []int{}},
		{name: "empty", raw: "", cfg: Config{IgnoreCase: true, IgnorePunctuation: true}, wantComp: "", wantMap: []int{}},
		{name: "non-ascii", raw: "Ça—va", cfg: Config{IgnoreCase: true, IgnorePunctuation: true}, wantComp: "çava", wantMap: []int{0, 1, 3, 4}},
		{name: "whitespace kept", raw: "a\t- b\n", cfg: Config{IgnorePunctuation: true}, wantComp: "a\t b\n", wantMap: []int{0, 1, 3, 4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comp, m := Preprocess([]rune(tc.raw), tc.cfg)
			assert.Equal(t, tc.wantComp, string(comp))
			assert.Equal(t, tc.wantMap, m.Offsets())
			require.Equal(t, len(comp), m.Len())
		})
	}
}

func TestPreprocess_MapIsStrictlyIncreasing(t *testing.T) {
	inputs := []string{"", "a", "...", "It's a-ok, (really)!", "  spaced   out  ", "«quoted» — dash"}
	cfgs := []Config{{}, {IgnoreCase: true}, {IgnorePunctuation: true}, {IgnoreCase: true, IgnorePunctuation: true}}
	for _, in := range inputs {
		for _, cfg := range cfgs {
			raw := []rune(in)
			comp, m := Preprocess(raw, cfg)
			offsets := m.Offsets()
			for p := range offsets {
				if p > 0 {
					assert.Greater(t, offsets[p], offsets[p-1], "input %q cfg %+v", in, cfg)
				}
				assert.Less(t, offsets[p], len(raw))
				if !cfg.IgnoreCase {
					assert.Equal(t, raw[offsets[p]], comp[p])
				}
			}
		}
	}
}

func TestIndexMap_Immutable(t *testing.T) {
	_, m := Preprocess([]rune("abc"), Config{})
	offsets := m.Offsets()
	offsets[0] = 99
	assert.Equal(t, 0, m.At(0))
}

func TestIndexMap_AtOutOfRangePanics(t *testing.T) {
	_, m := Preprocess([]rune("ab"), Config{})
	assert.Panics(t, func() { m.At(2) })
	assert.Panics(t, func() { m.At(-1) })
}

func TestIsPunctuation(t *testing.T) {
	for _, r := range ".,!/#$%^&*;:{}=-_`~()\"'?«»—" {
		assert.True(t, IsPunctuation(r), "%q", r)
	}
	for _, r := range "aZ09 \t\nçé" {
		assert.False(t, IsPunctuation(r), "%q", r)
	}
}

func TestPreprocessString(t *testing.T) {
	assert.Equal(t, "dont", PreprocessString("Don't", Config{IgnoreCase: true, IgnorePunctuation: true}))
	assert.Equal(t, "Don't", PreprocessString("Don't", Config{}))
}
