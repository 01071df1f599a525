package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is a rectangle of the screen that draws itself and may react
// to events. The viewer lays components out with SetPos and SetSize before
// the first Draw.
type Component interface {
	Draw(tcell.Screen)
	// A focused component receives key events. The TabContainer focuses
	// only the selected tab.
	SetFocused(bool)
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)

	// GetMinSize is the smallest useful size of the component.
	GetMinSize() (w, h int)
	GetSize() (w, h int)
	SetSize(w, h int)

	// HandleEvent reports whether the event was consumed.
	HandleEvent(tcell.Event) bool
}

// baseComponent holds the geometry, focus and theme every component shares.
// Embedders override what they need.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool)      { c.focused = v }
func (c *baseComponent) SetTheme(theme *Theme)  { c.theme = theme }
func (c *baseComponent) GetPos() (int, int)     { return c.x, c.y }
func (c *baseComponent) SetPos(x, y int)        { c.x, c.y = x, y }
func (c *baseComponent) GetMinSize() (int, int) { return 0, 0 }
func (c *baseComponent) GetSize() (int, int)    { return c.width, c.height }

// SetSize never stores a negative extent.
func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = max(0, width), max(0, height)
}

// clamp keeps v within lo and hi; lo wins when hi < lo.
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
