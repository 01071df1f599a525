package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DrawRect fills the box at x, y of the given size with char. It does not
// call Show.
func DrawRect(s tcell.Screen, x, y, width, height int, char rune, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			s.SetContent(col, row, char, nil, style)
		}
	}
}

// DrawStr renders str from x on row y, advancing by the display width of
// each rune. It returns the column after the last rune.
func DrawStr(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x += max(1, runewidth.RuneWidth(r))
	}
	return x
}

// DrawBox outlines the box at x, y with single-line box-drawing runes.
func DrawBox(s tcell.Screen, x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}
	right, bottom := x+width-1, y+height-1
	for col := x + 1; col < right; col++ {
		s.SetContent(col, y, '─', nil, style)
		s.SetContent(col, bottom, '─', nil, style)
	}
	for row := y + 1; row < bottom; row++ {
		s.SetContent(x, row, '│', nil, style)
		s.SetContent(right, row, '│', nil, style)
	}
	s.SetContent(x, y, '┌', nil, style)
	s.SetContent(right, y, '┐', nil, style)
	s.SetContent(x, bottom, '└', nil, style)
	s.SetContent(right, bottom, '┘', nil, style)
}
