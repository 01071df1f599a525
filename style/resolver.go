package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Normal is the category used for text no rule tags, and the fallback of
// Style for unknown categories.
const Normal = "normal"

var (
	ErrDuplicateCategory = errors.New("duplicate style category")
	ErrUnknownCategory   = errors.New("unknown style category")
	ErrAliasCycle        = errors.New("style alias cycle")
)

// DuplicateCategoryError is returned by Register for a category registered
// before.
type DuplicateCategoryError struct {
	Category string
}

func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("category %q: %v", e.Category, ErrDuplicateCategory)
}

func (e *DuplicateCategoryError) Unwrap() error { return ErrDuplicateCategory }

// UnknownCategoryError is returned by Resolve when the category, or a
// category on its alias chain, was never registered.
type UnknownCategoryError struct {
	Category string
	Via      string // The category whose alias led here, if any
}

func (e *UnknownCategoryError) Error() string {
	if e.Via != "" {
		return fmt.Sprintf("category %q (alias of %q): %v", e.Category, e.Via, ErrUnknownCategory)
	}
	return fmt.Sprintf("category %q: %v", e.Category, ErrUnknownCategory)
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// AliasCycleError is returned by Resolve when an alias chain comes back to
// a category already visited. Chain lists the walk, ending with the repeat.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAliasCycle, strings.Join(e.Chain, " -> "))
}

func (e *AliasCycleError) Unwrap() error { return ErrAliasCycle }

// A Resolver answers which style a category is drawn with. It is built once
// and then only read, so it may be shared between goroutines.
type Resolver struct {
	rules map[string]StyleRule
	order []string
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{rules: make(map[string]StyleRule)}
}

// Register adds a style rule. The alias target need not exist yet.
func (r *Resolver) Register(rule StyleRule) error {
	if _, ok := r.rules[rule.Category]; ok {
		return &DuplicateCategoryError{Category: rule.Category}
	}
	r.rules[rule.Category] = rule
	r.order = append(r.order, rule.Category)
	return nil
}

// Resolve follows the alias chain of category to a rule with concrete
// attributes. The returned rule keeps the requested category name and
// carries the attributes of the end of the chain.
func (r *Resolver) Resolve(category string) (StyleRule, error) {
	visited := make(map[string]bool)
	chain := []string{category}
	current, via := category, ""
	for {
		rule, ok := r.rules[current]
		if !ok {
			return StyleRule{}, &UnknownCategoryError{Category: current, Via: via}
		}
		visited[current] = true
		if !rule.IsAlias() {
			return StyleRule{Category: category, Attributes: rule.Attributes}, nil
		}
		chain = append(chain, rule.AliasOf)
		if visited[rule.AliasOf] {
			return StyleRule{}, &AliasCycleError{Chain: chain}
		}
		current, via = rule.AliasOf, current
	}
}

// Validate resolves every registered category and reports all failures.
// Hosts call it once at startup; a failing table must not be used.
func (r *Resolver) Validate() error {
	var errs []error
	for _, cat := range r.order {
		if _, err := r.Resolve(cat); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Style is the total form of Resolve used while drawing. A category that
// does not resolve is drawn like Normal, or with tcell.StyleDefault when
// Normal itself does not resolve.
func (r *Resolver) Style(category string) tcell.Style {
	if r == nil {
		return tcell.StyleDefault
	}
	if rule, err := r.Resolve(category); err == nil {
		return rule.Attributes.Style()
	} else if category != Normal {
		tracer().Debugf("style: %v, drawing as %s", err, Normal)
		if rule, err := r.Resolve(Normal); err == nil {
			return rule.Attributes.Style()
		}
	}
	return tcell.StyleDefault
}

// Categories returns the registered categories in registration order.
func (r *Resolver) Categories() []string {
	return append([]string(nil), r.order...)
}
