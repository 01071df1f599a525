/*
Package texdown provides the highlighting rules for texdown documents.

The rule table is YAML. A built-in table is embedded in the package and
returned by Default; hosts may load their own with Load or LoadFile. Loading
builds a finalized syntax.Catalog and a validated style.Resolver. Any
problem with the table is reported as an error, and a host must not go on
with a table that failed to load.
*/
package texdown

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"

	"github.com/fivemoreminix/texdown/style"
	"github.com/fivemoreminix/texdown/syntax"
)

// tracer writes to trace with key 'texdown'
func tracer() tracing.Trace {
	return tracing.Select("texdown")
}

//go:embed rules.yaml
var builtinRules []byte

// Filetypes are the extensions of texdown files.
var Filetypes = []string{".td", ".texdown"}

// RuleFile is the root structure of a rule table.
type RuleFile struct {
	Patterns []PatternDef `yaml:"patterns"`
	Styles   []StyleDef   `yaml:"styles"`
}

// PatternDef is one pattern rule as written in a rule table.
type PatternDef struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"` // line, span or region
	Category   string   `yaml:"category"`
	Pattern    string   `yaml:"pattern"`
	Open       string   `yaml:"open"`
	Close      string   `yaml:"close"`
	Start      string   `yaml:"start"`
	End        string   `yaml:"end"`
	Contains   []string `yaml:"contains"`
	Contained  bool     `yaml:"contained"`
	IgnoreCase bool     `yaml:"ignorecase"`
}

// StyleDef is one style rule as written in a rule table. A definition gives
// either an alias or attributes, not both.
type StyleDef struct {
	Category  string `yaml:"category"`
	Alias     string `yaml:"alias"`
	Fg        string `yaml:"fg"`
	Bg        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
}

// A Ruleset is a loaded rule table, ready for scanning and drawing.
type Ruleset struct {
	Catalog  *syntax.Catalog
	Styles   *style.Resolver
	Warnings []*syntax.OrphanRuleWarning
}

// Load reads a YAML rule table. Unknown keys are errors.
func Load(r io.Reader) (*Ruleset, error) {
	var file RuleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("texdown: decoding rule table: %w", err)
	}
	return file.Build()
}

// LoadFile reads the YAML rule table at path.
func LoadFile(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texdown: %w", err)
	}
	defer f.Close()
	rs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	tracer().Infof("texdown: loaded rule table %s", path)
	return rs, nil
}

// Build turns the definitions into a finalized catalog and a validated
// resolver.
func (f RuleFile) Build() (*Ruleset, error) {
	catalog := syntax.NewCatalog()
	for _, def := range f.Patterns {
		rule, err := def.rule()
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(rule); err != nil {
			return nil, fmt.Errorf("texdown: %w", err)
		}
	}
	warnings, err := catalog.Finalize()
	if err != nil {
		return nil, fmt.Errorf("texdown: %w", err)
	}

	styles := style.NewResolver()
	for _, def := range f.Styles {
		rule, err := def.rule()
		if err != nil {
			return nil, err
		}
		if err := styles.Register(rule); err != nil {
			return nil, fmt.Errorf("texdown: %w", err)
		}
	}
	if err := styles.Validate(); err != nil {
		return nil, fmt.Errorf("texdown: %w", err)
	}

	for _, cat := range catalog.Categories() {
		if _, err := styles.Resolve(cat); err != nil {
			tracer().Infof("texdown: category %q has no style, drawn as %s", cat, style.Normal)
		}
	}
	tracer().Debugf("texdown: %d patterns, %d styles", len(f.Patterns), len(f.Styles))
	return &Ruleset{Catalog: catalog, Styles: styles, Warnings: warnings}, nil
}

func (def PatternDef) rule() (syntax.PatternRule, error) {
	kind, err := syntax.ParseMatchKind(def.Kind)
	if err != nil {
		return syntax.PatternRule{}, fmt.Errorf("texdown: pattern %q: %w", def.Name, err)
	}
	return syntax.PatternRule{
		Name:       def.Name,
		Kind:       kind,
		Category:   def.Category,
		Pattern:    def.Pattern,
		Open:       def.Open,
		Close:      def.Close,
		Start:      def.Start,
		End:        def.End,
		Contains:   def.Contains,
		Contained:  def.Contained,
		IgnoreCase: def.IgnoreCase,
	}, nil
}

func (def StyleDef) rule() (style.StyleRule, error) {
	if def.Category == "" {
		return style.StyleRule{}, errors.New("texdown: style without category")
	}
	if def.Alias != "" {
		if def.Fg != "" || def.Bg != "" || def.Bold || def.Italic || def.Underline {
			return style.StyleRule{}, fmt.Errorf("texdown: style %q: alias of %q cannot set attributes", def.Category, def.Alias)
		}
		return style.StyleRule{Category: def.Category, AliasOf: def.Alias}, nil
	}
	fg, err := style.ParseColor(def.Fg)
	if err != nil {
		return style.StyleRule{}, fmt.Errorf("texdown: style %q: %w", def.Category, err)
	}
	bg, err := style.ParseColor(def.Bg)
	if err != nil {
		return style.StyleRule{}, fmt.Errorf("texdown: style %q: %w", def.Category, err)
	}
	attrs := style.Attributes{Foreground: fg, Background: bg, Underline: def.Underline}
	if def.Bold {
		attrs.Weight = style.WeightBold
	}
	if def.Italic {
		attrs.Slant = style.SlantItalic
	}
	return style.StyleRule{Category: def.Category, Attributes: attrs}, nil
}

var defaultRuleset = sync.OnceValue(func() *Ruleset {
	rs, err := Load(bytes.NewReader(builtinRules))
	if err != nil {
		panic(fmt.Sprintf("built-in texdown rules are broken: %v", err))
	}
	return rs
})

// Default returns the built-in ruleset. It is loaded on first use and
// shared afterwards; it must not be changed.
func Default() *Ruleset {
	return defaultRuleset()
}

// Sniff recognizes texdown contents: a first non-blank line that is a
// comment, a chapter heading or a block command.
func Sniff(src []byte) bool {
	for _, line := range bytes.Split(src, []byte{'\n'}) {
		line = bytes.TrimRight(line, " \t\r")
		if len(line) == 0 {
			continue
		}
		return bytes.HasPrefix(line, []byte("%%")) ||
			(bytes.HasPrefix(line, []byte("##")) && bytes.HasSuffix(line, []byte("##")) && len(line) >= 4) ||
			bytes.HasPrefix(line, []byte("!!"))
	}
	return false
}
