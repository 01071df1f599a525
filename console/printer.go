/*
Package console prints highlighted text to a terminal, using ANSI escape
sequences for the styles of a style.Resolver.

Text a category has no style for is written plain, and so is the normal
category: the terminal keeps its own foreground and background for
untagged text.
*/
package console

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/texdown/style"
	"github.com/fivemoreminix/texdown/syntax"
)

// Printer writes text with the categories of a catalog colored.
type Printer struct {
	Catalog *syntax.Catalog
	Styles  *style.Resolver

	colors map[string]*color.Color // nil entries print plain
	force  *bool                   // Overrides color.NoColor if set
}

// NewPrinter creates a printer. Whether it colors output follows
// color.NoColor unless SetColor is called.
func NewPrinter(catalog *syntax.Catalog, styles *style.Resolver) *Printer {
	return &Printer{
		Catalog: catalog,
		Styles:  styles,
		colors:  make(map[string]*color.Color),
	}
}

// SetColor turns escape sequences on or off, whatever the output is.
func (p *Printer) SetColor(enabled bool) {
	p.force = &enabled
	for _, c := range p.colors {
		p.apply(c)
	}
}

func (p *Printer) apply(c *color.Color) {
	if c == nil || p.force == nil {
		return
	}
	if *p.force {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Fprint writes text to w, with every tagged segment in its color.
func (p *Printer) Fprint(w io.Writer, text string) error {
	out := &errWriter{w: w}
	pos := 0
	for m := range p.Catalog.Scan(text) {
		for _, seg := range syntax.Flatten([]syntax.MatchResult{m}) {
			out.plain(text[pos:seg.Start])
			out.colored(p.colorOf(seg.Category), text[seg.Start:seg.End])
			pos = seg.End
		}
	}
	out.plain(text[pos:])
	return out.err
}

// colorOf returns the color of category, or nil for plain text.
func (p *Printer) colorOf(category string) *color.Color {
	if c, ok := p.colors[category]; ok {
		return c
	}
	var c *color.Color
	if category != style.Normal {
		if rule, err := p.Styles.Resolve(category); err == nil {
			if attrs := Attributes(rule.Attributes); len(attrs) > 0 {
				c = color.New(attrs...)
				p.apply(c)
			}
		}
	}
	p.colors[category] = c
	return c
}

// Attributes converts style attributes to SGR parameters. The 16 basic
// colors map to their ANSI codes; any other color is sent as 24-bit RGB.
func Attributes(a style.Attributes) []color.Attribute {
	var attrs []color.Attribute
	if a.Weight == style.WeightBold {
		attrs = append(attrs, color.Bold)
	}
	if a.Slant == style.SlantItalic {
		attrs = append(attrs, color.Italic)
	}
	if a.Underline {
		attrs = append(attrs, color.Underline)
	}
	attrs = append(attrs, colorAttributes(a.Foreground, color.FgBlack, color.FgHiBlack, 38)...)
	attrs = append(attrs, colorAttributes(a.Background, color.BgBlack, color.BgHiBlack, 48)...)
	return attrs
}

func colorAttributes(c tcell.Color, base, hiBase, extended color.Attribute) []color.Attribute {
	switch {
	case c == tcell.ColorDefault || !c.Valid():
		return nil
	case c >= tcell.ColorBlack && c <= tcell.ColorSilver:
		return []color.Attribute{base + color.Attribute(c-tcell.ColorBlack)}
	case c >= tcell.ColorGray && c <= tcell.ColorWhite:
		return []color.Attribute{hiBase + color.Attribute(c-tcell.ColorGray)}
	}
	r, g, b := c.RGB()
	return []color.Attribute{extended, 2, color.Attribute(r), color.Attribute(g), color.Attribute(b)}
}

// errWriter keeps the first write error and skips writes after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) plain(s string) {
	if e.err != nil || s == "" {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// colored writes s line by line, so that no escape sequence spans a line
// break.
func (e *errWriter) colored(c *color.Color, s string) {
	if c == nil {
		e.plain(s)
		return
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			e.plain("\n")
		}
		if e.err != nil || line == "" {
			continue
		}
		_, e.err = c.Fprint(e.w, line)
	}
}
