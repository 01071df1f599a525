// Package style maps highlighting categories to display styles.
//
// A Resolver is filled once with StyleRules and then only read. A rule
// either carries concrete Attributes or names another category in AliasOf,
// in which case it looks exactly like that category.
package style

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'texdown'
func tracer() tracing.Trace {
	return tracing.Select("texdown")
}

// Weight is the font weight of a style.
type Weight uint8

const (
	WeightNormal Weight = iota
	WeightBold
)

// Slant is the font slant of a style.
type Slant uint8

const (
	SlantNormal Slant = iota
	SlantItalic
)

// Attributes are the concrete visual properties of a category.
// tcell.ColorDefault leaves the terminal's colour in place.
type Attributes struct {
	Foreground tcell.Color
	Background tcell.Color
	Weight     Weight
	Slant      Slant
	Underline  bool
}

// Style converts the attributes to a tcell.Style.
func (a Attributes) Style() tcell.Style {
	s := tcell.StyleDefault.Foreground(a.Foreground).Background(a.Background)
	if a.Weight == WeightBold {
		s = s.Bold(true)
	}
	if a.Slant == SlantItalic {
		s = s.Italic(true)
	}
	if a.Underline {
		s = s.Underline(true)
	}
	return s
}

// A StyleRule binds a category to Attributes, or to another category's
// attributes through AliasOf.
type StyleRule struct {
	Category   string
	Attributes Attributes
	AliasOf    string
}

// IsAlias reports whether the rule borrows another category's attributes.
func (r StyleRule) IsAlias() bool {
	return r.AliasOf != ""
}

// ParseColor accepts tcell colour names ("yellow", "darkgray") and
// "#rrggbb" values. The empty string and "default" give tcell.ColorDefault.
func ParseColor(name string) (tcell.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return c, &ColorError{Name: name}
	}
	return c, nil
}

// ColorError reports a colour name tcell does not know.
type ColorError struct {
	Name string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("unknown color %q", e.Name)
}
