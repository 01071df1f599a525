package buffer

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/fivemoreminix/texdown/style"
	"github.com/fivemoreminix/texdown/texdown"
)

func texdownLanguage() *Language {
	rs := texdown.Default()
	return &Language{
		Name:      "texdown",
		Filetypes: texdown.Filetypes,
		Catalog:   rs.Catalog,
		Styles:    rs.Styles,
		Sniff:     texdown.Sniff,
	}
}

type spanWant struct {
	col, endCol int
	category    string
}

func checkLine(t *testing.T, h *Highlighter, line int, want []spanWant) {
	t.Helper()
	got := h.GetLineMatches(line)
	if len(got) != len(want) {
		t.Fatalf("line %d: got %d spans %+v, want %d", line, len(got), got, len(want))
	}
	for i, w := range want {
		g := got[i]
		if g.Line != line || g.Col != w.col || g.EndCol != w.endCol || g.Category != w.category {
			t.Errorf("line %d span %d: got %+v, want %+v", line, i, g, w)
		}
		if g.Style != h.StyleOf(w.category) {
			t.Errorf("line %d span %d: style not resolved from %s", line, i, w.category)
		}
	}
}

func TestHighlighterSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	buf := NewRopeBuffer([]byte("%% this is a comment\n** bold text **\nplain\n== Für <<sec>> ==\n"))
	h := NewHighlighter(buf, texdownLanguage())
	if !h.HasInvalidatedLines(0, 0) {
		t.Fatalf("a new highlighter has nothing scanned")
	}
	h.UpdateInvalidatedLines(0, buf.Lines()-1)

	checkLine(t, h, 0, []spanWant{{0, 20, "comment"}})
	checkLine(t, h, 1, []spanWant{{2, 13, "bold"}})
	checkLine(t, h, 2, nil)
	// "== Für <<" is section, "sec" is the label, ">> ==" is section again.
	// Columns count runes, so "ü" is one column.
	checkLine(t, h, 3, []spanWant{{0, 9, "section"}, {9, 12, "label"}, {12, 17, "section"}})
	checkLine(t, h, 4, nil)

	if h.GetLineMatches(-1) != nil || h.GetLineMatches(99) != nil {
		t.Errorf("out of range lines have no spans")
	}
}

func TestHighlighterRegionSpansLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	buf := NewRopeBuffer([]byte("!!blockquote\nsome *text*\n\nmore"))
	h := NewHighlighter(buf, texdownLanguage())
	h.UpdateLines()

	checkLine(t, h, 0, []spanWant{{0, 12, "quoteBlock"}})
	checkLine(t, h, 1, []spanWant{{0, 11, "quoteBlock"}})
	checkLine(t, h, 2, nil) // nothing to paint on an empty line
	checkLine(t, h, 3, []spanWant{{0, 4, "quoteBlock"}})
}

func TestHighlighterInvalidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	buf := NewRopeBuffer([]byte("first\nsecond\n"))
	h := NewHighlighter(buf, texdownLanguage())
	h.UpdateInvalidatedLines(0, 2)
	if h.Passes() != 1 {
		t.Fatalf("expected one pass, got %d", h.Passes())
	}
	h.UpdateInvalidatedLines(0, 2)
	if h.Passes() != 1 {
		t.Errorf("nothing was invalidated, expected no rescan")
	}

	// Opening a quote block on the first line recolors everything below.
	buf.Insert(0, []byte("!!blockquote\n"))
	h.InvalidateLines(0, 0)
	h.UpdateInvalidatedLines(0, 0)
	if h.Passes() != 2 {
		t.Fatalf("expected a rescan, got %d passes", h.Passes())
	}
	checkLine(t, h, 2, []spanWant{{0, 6, "quoteBlock"}})

	// A change in line count forces a rescan even without invalidation.
	buf.Remove(0, buf.LineStart(1))
	h.UpdateInvalidatedLines(0, 0)
	if h.Passes() != 3 {
		t.Fatalf("expected a rescan after lines changed, got %d passes", h.Passes())
	}
	checkLine(t, h, 0, nil)
}

func TestHighlighterWithoutLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	h := NewHighlighter(NewRopeBuffer([]byte("%% comment")), nil)
	h.UpdateLines()
	checkLine(t, h, 0, nil)
	if h.DefaultStyle() != tcell.StyleDefault {
		t.Errorf("expected the default style without a language")
	}
	if h.StyleOf("comment") != tcell.StyleDefault {
		t.Errorf("expected the default style without a language")
	}
}

func TestHighlighterDefaultStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	lang := texdownLanguage()
	h := NewHighlighter(NewRopeBuffer(nil), lang)
	if h.DefaultStyle() != lang.Styles.Style(style.Normal) {
		t.Errorf("untagged text uses the normal category")
	}
}

func TestDetectLanguage(t *testing.T) {
	lang := texdownLanguage()
	tests := []struct {
		path string
		src  string
		want *Language
	}{
		{path: "paper.td", want: lang},
		{path: "paper.TEXDOWN", want: lang},
		{path: "notes.txt", src: "%% draft\n", want: lang},
		{path: "", src: "## Intro ##\n", want: lang},
		{path: "main.go", src: "package main\n", want: nil},
	}
	for _, tc := range tests {
		if got := DetectLanguage(tc.path, []byte(tc.src), lang); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
