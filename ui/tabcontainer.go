package ui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// A Tab is a child of a TabContainer; has a name and child Component.
type Tab struct {
	Name  string
	Child Component
}

// A TabContainer organizes children by showing only one of them at a time.
// Tab and Backtab cycle through the children.
type TabContainer struct {
	children []Tab
	selected int

	baseComponent
}

func NewTabContainer(theme *Theme) *TabContainer {
	return &TabContainer{
		children:      make([]Tab, 0, 4),
		baseComponent: baseComponent{theme: theme},
	}
}

// AddTab appends a tab. Names of file paths are shortened to the base name.
func (c *TabContainer) AddTab(name string, child Component) {
	if name != "" {
		name = filepath.Base(name)
	}
	c.children = append(c.children, Tab{Name: name, Child: child})
	c.layout(child)
	child.SetTheme(c.theme)
}

// layout fits child inside the border.
func (c *TabContainer) layout(child Component) {
	child.SetPos(c.x+1, c.y+1)
	child.SetSize(max(0, c.width-2), max(0, c.height-2))
}

// RemoveTab deletes the tab at `idx`. Returns true if the tab was found,
// false otherwise.
func (c *TabContainer) RemoveTab(idx int) bool {
	if idx < 0 || idx >= len(c.children) {
		return false
	}
	if c.selected == idx {
		c.children[idx].Child.SetFocused(false)
	}

	copy(c.children[idx:], c.children[idx+1:])  // Shift all items after idx to the left
	c.children = c.children[:len(c.children)-1] // Shrink slice by one

	if c.selected >= idx && c.selected > 0 {
		c.selected-- // Keep the selection within the bounds of available tabs
	}
	if c.focused && len(c.children) > 0 {
		c.children[c.selected].Child.SetFocused(true)
	}
	return true
}

// FocusTab sets the visible tab to the one at `idx`. FocusTab clamps `idx`
// between 0 and tab_count - 1. If no tabs are present, the function does nothing.
func (c *TabContainer) FocusTab(idx int) {
	if len(c.children) < 1 {
		return
	}
	idx = clamp(idx, 0, len(c.children)-1)

	c.children[c.selected].Child.SetFocused(false) // Unfocus old tab
	c.children[idx].Child.SetFocused(c.focused)    // Focus new tab
	c.selected = idx
}

func (c *TabContainer) GetSelectedTabIdx() int {
	return c.selected
}

func (c *TabContainer) GetTabCount() int {
	return len(c.children)
}

func (c *TabContainer) GetTab(idx int) *Tab {
	return &c.children[idx]
}

// Draw draws the border of the TabContainer with the tab names on top, then
// it draws the selected child component.
func (c *TabContainer) Draw(s tcell.Screen) {
	var styFocused tcell.Style
	if c.focused {
		styFocused = c.theme.GetOrDefault("TabContainerFocused")
	} else {
		styFocused = c.theme.GetOrDefault("TabContainer")
	}

	DrawBox(s, c.x, c.y, c.width, c.height, styFocused)

	combinedTabLength := len(c.children) - 1 // One column between tabs
	for i := range c.children {
		combinedTabLength += runewidth.StringWidth(c.children[i].Name) + 2
	}

	col := c.x + c.width/2 - combinedTabLength/2 // Starting column
	for i, tab := range c.children {
		sty := styFocused
		if c.selected == i {
			fg, bg, attr := styFocused.Decompose()
			sty = tcell.Style{}.Foreground(bg).Background(fg).Attributes(attr)
		}

		str := fmt.Sprintf(" %s ", tab.Name)
		col = DrawStr(s, col, c.y, str, sty) + 1
	}

	if c.selected < len(c.children) {
		c.children[c.selected].Child.Draw(s)
	}
}

// SetFocused calls SetFocused on the visible child Component.
func (c *TabContainer) SetFocused(v bool) {
	c.focused = v
	if len(c.children) > 0 {
		c.children[c.selected].Child.SetFocused(v)
	}
}

// SetTheme sets the theme.
func (c *TabContainer) SetTheme(theme *Theme) {
	c.theme = theme
	for _, tab := range c.children {
		tab.Child.SetTheme(theme) // Update the theme for all children
	}
}

// SetPos sets the position of the container and moves every child along.
func (c *TabContainer) SetPos(x, y int) {
	c.x, c.y = x, y
	for _, tab := range c.children {
		c.layout(tab.Child)
	}
}

// SetSize sets the size of the container and resizes every child.
func (c *TabContainer) SetSize(width, height int) {
	c.width, c.height = width, height
	for _, tab := range c.children {
		c.layout(tab.Child)
	}
}

// HandleEvent switches tabs on Tab and Backtab and forwards anything else to
// the visible child. It returns whether the event was handled.
func (c *TabContainer) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok && len(c.children) > 0 {
		switch ev.Key() {
		case tcell.KeyTab:
			c.FocusTab((c.selected + 1) % len(c.children))
			return true
		case tcell.KeyBacktab:
			c.FocusTab((c.selected + len(c.children) - 1) % len(c.children))
			return true
		}
	}

	if c.selected < len(c.children) {
		return c.children[c.selected].Child.HandleEvent(event)
	}
	return false
}
