package buffer

import (
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing"

	"github.com/fivemoreminix/texdown/style"
	"github.com/fivemoreminix/texdown/syntax"
)

// tracer writes to trace with key 'texdown'
func tracer() tracing.Trace {
	return tracing.Select("texdown")
}

// A Span is a styled run of one line. Col and EndCol count runes; EndCol is
// exclusive. Line delimiters are never part of a span.
type Span struct {
	Line     int
	Col      int
	EndCol   int
	Category string
	Style    tcell.Style
}

// ByCol implements sort.Interface for []Span based on the Col field.
type ByCol []Span

func (c ByCol) Len() int           { return len(c) }
func (c ByCol) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c ByCol) Less(i, j int) bool { return c[i].Col < c[j].Col }

// A Highlighter can answer how to color any part of a provided Buffer. It
// scans the buffer with the language's catalog and keeps the resulting spans
// per line until lines are invalidated.
//
// A region can open far above the lines on screen, so any invalidated line
// makes the next update rescan the whole buffer.
type Highlighter struct {
	Buffer   Buffer
	Language *Language

	lineSpans [][]Span // nil marks an invalidated line
	passes    int
}

func NewHighlighter(buffer Buffer, lang *Language) *Highlighter {
	return &Highlighter{
		Buffer:    buffer,
		Language:  lang,
		lineSpans: make([][]Span, buffer.Lines()),
	}
}

// UpdateLines rescans the buffer and replaces the spans of every line.
func (h *Highlighter) UpdateLines() {
	text := string(h.Buffer.Bytes())
	lines := h.Buffer.Lines()
	h.lineSpans = make([][]Span, lines)
	for i := range h.lineSpans {
		h.lineSpans[i] = []Span{}
	}
	h.passes++
	if h.Language == nil || h.Language.Catalog == nil {
		return
	}

	starts := lineStarts(text)
	var segs []syntax.Segment
	for m := range h.Language.Catalog.Scan(text) {
		segs = append(segs, syntax.Flatten([]syntax.MatchResult{m})...)
	}
	for _, seg := range segs {
		st := h.Language.Styles.Style(seg.Category)
		for pos := seg.Start; pos < seg.End; {
			line := sort.SearchInts(starts, pos+1) - 1
			lineEnd := len(text)
			if line+1 < len(starts) {
				lineEnd = starts[line+1] - 1 // the '\n'
			}
			end := min(seg.End, lineEnd)
			if end > pos && line < len(h.lineSpans) {
				col := utf8.RuneCountInString(text[starts[line]:pos])
				h.lineSpans[line] = append(h.lineSpans[line], Span{
					Line:     line,
					Col:      col,
					EndCol:   col + utf8.RuneCountInString(text[pos:end]),
					Category: seg.Category,
					Style:    st,
				})
			}
			pos = lineEnd + 1
		}
	}
	tracer().Debugf("highlight: rescanned %d lines, %d segments", lines, len(segs))
}

// lineStarts returns the byte offset of every line of text.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// UpdateInvalidatedLines rescans only if a line between startLine and
// endLine, inclusively, is invalidated, or the buffer changed its number of
// lines.
func (h *Highlighter) UpdateInvalidatedLines(startLine, endLine int) {
	if len(h.lineSpans) != h.Buffer.Lines() || h.HasInvalidatedLines(startLine, endLine) {
		h.UpdateLines()
	}
}

// HasInvalidatedLines reports whether a line between startLine and endLine,
// inclusively, needs a rescan.
func (h *Highlighter) HasInvalidatedLines(startLine, endLine int) bool {
	for i := max(startLine, 0); i <= endLine && i < len(h.lineSpans); i++ {
		if h.lineSpans[i] == nil {
			return true
		}
	}
	return false
}

// InvalidateLines marks lines startLine to endLine, inclusively, for a rescan.
func (h *Highlighter) InvalidateLines(startLine, endLine int) {
	for i := max(startLine, 0); i <= endLine && i < len(h.lineSpans); i++ {
		h.lineSpans[i] = nil
	}
}

// GetLineMatches returns the spans of line ordered by column. Lines that
// were never scanned or are invalidated have none.
func (h *Highlighter) GetLineMatches(line int) []Span {
	if line < 0 || line >= len(h.lineSpans) {
		return nil
	}
	data := h.lineSpans[line]
	sort.Stable(ByCol(data))
	return data
}

// GetStyle returns the style a span is drawn with.
func (h *Highlighter) GetStyle(span Span) tcell.Style {
	return span.Style
}

// DefaultStyle is the style of untagged text.
func (h *Highlighter) DefaultStyle() tcell.Style {
	if h.Language == nil {
		return tcell.StyleDefault
	}
	return h.Language.Styles.Style(style.Normal)
}

// StyleOf returns the style of category in the highlighter's language.
func (h *Highlighter) StyleOf(category string) tcell.Style {
	if h.Language == nil {
		return tcell.StyleDefault
	}
	return h.Language.Styles.Style(category)
}

// Passes counts full rescans so far.
func (h *Highlighter) Passes() int {
	return h.passes
}
