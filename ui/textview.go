package ui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fivemoreminix/texdown/ui/buffer"
)

// TextView is a read-only, line-based view of a buffer. It draws the
// highlight spans of the buffer's language and can be scrolled with the
// arrow and paging keys.
type TextView struct {
	Buffer      buffer.Buffer
	Highlighter *buffer.Highlighter
	LineNumbers bool   // Whether to render line numbers (and therefore the column)
	TabSize     int    // How many columns a tab advances to
	FilePath    string // Empty if the contents did not come from a file

	langs            []*buffer.Language
	scrollx, scrolly int // X and Y offset of view, known as scroll

	baseComponent
}

// NewTextView initializes the view with contents. The language is detected
// from filePath and the contents, out of langs.
func NewTextView(filePath string, contents []byte, theme *Theme, langs ...*buffer.Language) *TextView {
	tv := &TextView{
		LineNumbers:   true,
		TabSize:       4,
		FilePath:      filePath,
		langs:         langs,
		baseComponent: baseComponent{theme: theme},
	}
	tv.SetContents(contents)
	return tv
}

// SetContents replaces the buffer and picks a language for it. The view
// stays scrolled where it was, as far as the new contents allow.
func (t *TextView) SetContents(contents []byte) {
	t.Buffer = buffer.NewRopeBuffer(contents)
	lang := buffer.DetectLanguage(t.FilePath, contents, t.langs...)
	t.Highlighter = buffer.NewHighlighter(t.Buffer, lang)
	t.ScrollTo(t.scrolly, t.scrollx)
}

// SetLanguages replaces the languages the view detects from and detects
// again.
func (t *TextView) SetLanguages(langs ...*buffer.Language) {
	t.langs = langs
	t.SetContents(t.Buffer.Bytes())
}

// Language returns the detected language, or nil.
func (t *TextView) Language() *buffer.Language {
	return t.Highlighter.Language
}

// GetScroll returns the first visible column and line.
func (t *TextView) GetScroll() (x, y int) {
	return t.scrollx, t.scrolly
}

// ScrollTo makes line the top visible line and col the leftmost visible
// column. Both are clamped to the buffer.
func (t *TextView) ScrollTo(line, col int) {
	t.scrolly = clamp(line, 0, t.maxScrollY())
	t.scrollx = max(0, col)
}

// ScrollBy moves the view by dy lines and dx columns.
func (t *TextView) ScrollBy(dy, dx int) {
	t.ScrollTo(t.scrolly+dy, t.scrollx+dx)
}

func (t *TextView) maxScrollY() int {
	return max(0, t.Buffer.Lines()-max(1, t.height))
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextView) getColumnWidth() int {
	var columnWidth int
	if t.LineNumbers {
		// Digits of the largest line number, a space and the separator
		columnWidth = max(3, 2+len(strconv.Itoa(t.Buffer.Lines())))
	}
	return columnWidth
}

// Draw renders the visible lines. Line delimiters are drawn as blanks and
// tabs advance to the next multiple of TabSize.
func (t *TextView) Draw(s tcell.Screen) {
	columnWidth := t.getColumnWidth()
	bufferLines := t.Buffer.Lines()
	columnStyle := t.theme.GetOrDefault("TextViewColumn")

	t.Highlighter.UpdateInvalidatedLines(t.scrolly, t.scrolly+(t.height-1))
	defaultStyle := t.Highlighter.DefaultStyle()

	for lineY := t.y; lineY < t.y+t.height; lineY++ { // For each line we can draw...
		line := lineY + t.scrolly - t.y // The line number being drawn (starts at zero)

		lineNumStr := "" // Line number as a string
		col := t.x + columnWidth

		if line < bufferLines {
			lineNumStr = strconv.Itoa(line + 1)
			col = t.drawLine(s, line, lineY, col, defaultStyle)
		}
		for ; col < t.x+t.width; col++ {
			s.SetContent(col, lineY, ' ', nil, defaultStyle)
		}

		if columnWidth > 0 {
			columnStr := strings.Repeat(" ", columnWidth-len(lineNumStr)-1) + lineNumStr + "│" // Right align line number
			DrawStr(s, t.x, lineY, columnStr, columnStyle)
		}
	}
}

// drawLine draws one buffer line from screen column col on and returns the
// first column left blank.
func (t *TextView) drawLine(s tcell.Screen, line, lineY, col int, defaultStyle tcell.Style) int {
	lineBytes := t.Buffer.Line(line)
	spans := t.Highlighter.GetLineMatches(line)
	var spanIdx int
	right := t.x + t.width

	var visual int // Visual column within the line, before scrolling
	for runeIdx, byteIdx := 0, 0; byteIdx < len(lineBytes) && col < right; runeIdx++ {
		r, size := utf8.DecodeRune(lineBytes[byteIdx:])
		byteIdx += size
		if r == '\n' || r == '\r' {
			break
		}

		for spanIdx < len(spans) && spans[spanIdx].EndCol <= runeIdx {
			spanIdx++ // Passed that span
		}
		currentStyle := defaultStyle
		if spanIdx < len(spans) && spans[spanIdx].Col <= runeIdx {
			currentStyle = t.Highlighter.GetStyle(spans[spanIdx])
		}

		width := runewidth.RuneWidth(r)
		if r == '\t' {
			tabSize := max(1, t.TabSize)
			width = tabSize - visual%tabSize
			r = ' '
		}
		for i := 0; i < width; i++ {
			if visual+i < t.scrollx {
				continue
			}
			if col >= right {
				break
			}
			switch {
			case i == 0 || r == ' ':
				s.SetContent(col, lineY, r, nil, currentStyle)
			case visual < t.scrollx: // Left half of a wide rune is scrolled away
				s.SetContent(col, lineY, ' ', nil, currentStyle)
			}
			col++
		}
		visual += width
	}
	return col
}

// HandleEvent scrolls the view. It returns whether the event was handled.
func (t *TextView) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}
	page := max(1, t.height-1)
	switch ev.Key() {
	case tcell.KeyUp:
		t.ScrollBy(-1, 0)
	case tcell.KeyDown:
		t.ScrollBy(1, 0)
	case tcell.KeyLeft:
		t.ScrollBy(0, -1)
	case tcell.KeyRight:
		t.ScrollBy(0, 1)
	case tcell.KeyPgUp:
		t.ScrollBy(-page, 0)
	case tcell.KeyPgDn:
		t.ScrollBy(page, 0)
	case tcell.KeyHome:
		t.ScrollTo(0, 0)
	case tcell.KeyEnd:
		t.ScrollTo(t.maxScrollY(), 0)
	default:
		return false
	}
	return true
}
