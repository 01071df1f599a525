package syntax

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

// newCatalog registers rules in order and finalizes the catalog.
func newCatalog(t *testing.T, rules ...PatternRule) *Catalog {
	t.Helper()
	c := NewCatalog()
	for _, r := range rules {
		require.NoError(t, c.Register(r), "register %s", r.Name)
	}
	_, err := c.Finalize()
	require.NoError(t, err)
	return c
}

var (
	commentRule = PatternRule{Name: "comment", Kind: LinePrefix, Pattern: `%%.*`, Contains: []string{"todo"}}
	todoRule    = PatternRule{Name: "todo", Kind: DelimitedSpan, Pattern: `\b(?:FIXME|TODO)\b`, Contained: true}
	boldRule    = PatternRule{Name: "bold", Kind: DelimitedSpan, Pattern: `\*(?P<body>[^*\n]+)\*`}
	chapterRule = PatternRule{Name: "chapter", Kind: LinePrefix, Pattern: `## *(?P<body>.*?) *##`, Contains: []string{"label"}}
	labelRule   = PatternRule{Name: "label", Kind: DelimitedSpan, Open: "<<", Close: ">>"}
	italicsRule = PatternRule{Name: "italics", Kind: DelimitedSpan, Pattern: `(?:^|[^A-Za-z])/(?P<body>[^ /](?:[^/\n]*?[^ /])?)/(?:[^A-Za-z]|$)`}
	quoteRule   = PatternRule{Name: "quoteblock", Kind: RegionBlock, Start: `!!blockquote\b.*`, End: `!!end\b.*`, Category: "quoteBlock"}
)

func TestRegisterDuplicateName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := NewCatalog()
	require.NoError(t, c.Register(boldRule))
	err := c.Register(boldRule)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "bold", dup.Name)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegisterInvalidRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	tests := []struct {
		name string
		rule PatternRule
		want error
	}{
		{"no name", PatternRule{Kind: LinePrefix, Pattern: "x"}, ErrInvalidRule},
		{"line without pattern", PatternRule{Name: "a", Kind: LinePrefix}, ErrInvalidRule},
		{"span without delimiters", PatternRule{Name: "a", Kind: DelimitedSpan, Open: "*"}, ErrInvalidRule},
		{"region without end", PatternRule{Name: "a", Kind: RegionBlock, Start: "x"}, ErrInvalidRule},
		{"unknown kind", PatternRule{Name: "a", Kind: MatchKind(9), Pattern: "x"}, ErrInvalidRule},
	}
	for _, tc := range tests {
		err := NewCatalog().Register(tc.rule)
		require.ErrorIs(t, err, tc.want, tc.name)
	}

	err := NewCatalog().Register(PatternRule{Name: "broken", Kind: LinePrefix, Pattern: "(unclosed"})
	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "pattern", perr.Field)
}

func TestFinalizeForwardReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := NewCatalog()
	require.NoError(t, c.Register(chapterRule)) // contains label, registered below
	require.NoError(t, c.Register(labelRule))
	warnings, err := c.Finalize()
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.True(t, c.Finalized())
}

func TestFinalizeDanglingReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := NewCatalog()
	require.NoError(t, c.Register(PatternRule{Name: "a", Kind: LinePrefix, Pattern: "a", Contains: []string{"x", "y"}}))
	_, err := c.Finalize()
	require.ErrorIs(t, err, ErrDanglingReference)
	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	require.Equal(t, "a", dangling.Rule)
	require.Contains(t, err.Error(), `"y"`)
	require.False(t, c.Finalized())
}

func TestFinalizeOrphanWarning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := NewCatalog()
	require.NoError(t, c.Register(boldRule))
	require.NoError(t, c.Register(todoRule)) // contained, but nobody contains it
	warnings, err := c.Finalize()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Equal(t, "todo", warnings[0].Rule)
	require.Empty(t, c.ScanAll("TODO"), "an orphan never matches")
}

func TestRegisterAfterFinalize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := newCatalog(t, boldRule)
	require.ErrorIs(t, c.Register(labelRule), ErrFinalized)
	_, err := c.Finalize()
	require.ErrorIs(t, err, ErrFinalized)
}

func TestCatalogIntrospection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	c := newCatalog(t, quoteRule, commentRule, todoRule, boldRule)
	require.Equal(t, []string{"quoteblock", "comment", "todo", "bold"}, c.Rules())
	require.Equal(t, []string{"quoteBlock", "comment", "todo", "bold"}, c.Categories())
	r, ok := c.Rule("quoteblock")
	require.True(t, ok)
	require.Equal(t, RegionBlock, r.Kind)
	_, ok = c.Rule("nope")
	require.False(t, ok)
}

func TestParseMatchKind(t *testing.T) {
	for in, want := range map[string]MatchKind{
		"line": LinePrefix, "Span": DelimitedSpan, "region-block": RegionBlock,
	} {
		got, err := ParseMatchKind(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.Equal(t, "region", RegionBlock.String())
	_, err := ParseMatchKind("paragraph")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidRule))
}
