package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Align defines the text alignment of a label.
type Align uint8

const (
	// AlignLeft is the normal text alignment where text is aligned to the left
	// of its bounding box.
	AlignLeft Align = iota
	// AlignRight causes text to be aligned to the right of its bounding box.
	AlignRight
)

// A Label is a one-line component for rendering text. The text is cut to
// fit its bounding box and the rest of the box is filled with the label style.
type Label struct {
	Text      string
	Alignment Align
	StyleKey  string // Theme key the label is drawn with

	baseComponent
}

func NewLabel(text string, styleKey string, theme *Theme) *Label {
	return &Label{
		Text:          text,
		StyleKey:      styleKey,
		baseComponent: baseComponent{theme: theme, height: 1},
	}
}

func (l *Label) Draw(s tcell.Screen) {
	style := l.theme.GetOrDefault(l.StyleKey)
	DrawRect(s, l.x, l.y, l.width, 1, ' ', style)

	text := runewidth.Truncate(l.Text, l.width, "…")
	col := l.x
	if l.Alignment == AlignRight {
		col = l.x + l.width - runewidth.StringWidth(text)
	}
	DrawStr(s, col, l.y, text, style)
}

func (l *Label) GetMinSize() (int, int) {
	return runewidth.StringWidth(l.Text), 1
}

func (l *Label) HandleEvent(tcell.Event) bool {
	return false
}
