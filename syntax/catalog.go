package syntax

import (
	"errors"
	"sort"
)

// A Catalog is an ordered collection of PatternRules. Rules are registered,
// the catalog is finalized once, and from then on it is read-only and may be
// scanned from any number of goroutines.
type Catalog struct {
	rules     []*compiledRule
	byName    map[string]*compiledRule
	topLevel  []*compiledRule
	finalized bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*compiledRule)}
}

// Register adds a rule to the end of the catalog. References in Contains are
// not checked until Finalize, so rules may refer to rules registered later.
func (c *Catalog) Register(rule PatternRule) error {
	if c.finalized {
		return ErrFinalized
	}
	if _, ok := c.byName[rule.Name]; ok {
		return &DuplicateNameError{Name: rule.Name}
	}
	cr, err := compileRule(rule)
	if err != nil {
		return err
	}
	cr.order = len(c.rules)
	c.rules = append(c.rules, cr)
	c.byName[cr.Name] = cr
	return nil
}

// Finalize resolves every Contains reference and freezes the catalog.
// All dangling references are reported together. Contained-only rules which
// nothing contains come back as warnings; they do not fail finalization.
func (c *Catalog) Finalize() ([]*OrphanRuleWarning, error) {
	if c.finalized {
		return nil, ErrFinalized
	}
	var errs []error
	referenced := make(map[string]bool)
	for _, r := range c.rules {
		r.children = r.children[:0]
		for _, name := range r.Contains {
			child, ok := c.byName[name]
			if !ok {
				errs = append(errs, &DanglingReferenceError{Rule: r.Name, Missing: name})
				continue
			}
			if child != r { // a rule inside itself never counts as a reference
				referenced[name] = true
			}
			r.children = append(r.children, child)
		}
		// Children compete by registration order, not by the order listed.
		sort.SliceStable(r.children, func(i, j int) bool {
			return r.children[i].order < r.children[j].order
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	var warnings []*OrphanRuleWarning
	c.topLevel = c.topLevel[:0]
	for _, r := range c.rules {
		if !r.Contained {
			c.topLevel = append(c.topLevel, r)
		} else if !referenced[r.Name] {
			w := &OrphanRuleWarning{Rule: r.Name}
			tracer().Infof("syntax: %v", w)
			warnings = append(warnings, w)
		}
	}
	c.finalized = true
	tracer().Debugf("syntax: catalog finalized with %d rules, %d top-level", len(c.rules), len(c.topLevel))
	return warnings, nil
}

// Finalized reports whether Finalize has succeeded.
func (c *Catalog) Finalized() bool {
	return c.finalized
}

// Rules returns the rule names in registration order.
func (c *Catalog) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Rule returns the registered rule called name.
func (c *Catalog) Rule(name string) (PatternRule, bool) {
	r, ok := c.byName[name]
	if !ok {
		return PatternRule{}, false
	}
	return r.PatternRule, true
}

// Categories returns every category a rule of this catalog can produce,
// in registration order, without repetitions.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool, len(c.rules))
	var cats []string
	for _, r := range c.rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			cats = append(cats, r.Category)
		}
	}
	return cats
}
