package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchKind selects how a PatternRule is applied to text.
type MatchKind uint8

const (
	LinePrefix    MatchKind = iota // Matches from the start of a line
	DelimitedSpan                  // Matches between two delimiters on one line
	RegionBlock                    // Matches from a start line to an end line
)

func (k MatchKind) String() string {
	switch k {
	case LinePrefix:
		return "line"
	case DelimitedSpan:
		return "span"
	case RegionBlock:
		return "region"
	}
	return fmt.Sprintf("MatchKind(%d)", uint8(k))
}

// ParseMatchKind maps the names used in rule tables ("line", "span",
// "region") to a MatchKind.
func ParseMatchKind(s string) (MatchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "line-prefix":
		return LinePrefix, nil
	case "span", "delimited-span":
		return DelimitedSpan, nil
	case "region", "region-block":
		return RegionBlock, nil
	}
	return 0, fmt.Errorf("unknown match kind %q", s)
}

// bodyGroup is the name of the capture group that narrows a match. For span
// rules it is the reported span; for every kind it is the window searched by
// child rules.
const bodyGroup = "body"

// A PatternRule describes one named text-region matcher.
//
// Pattern is used by line and span rules. A span rule may give Open and
// Close instead, which are literal delimiters around a shortest non-empty
// body. Region rules use Start and End, each matched against the beginning
// of a line.
type PatternRule struct {
	Name       string
	Kind       MatchKind
	Category   string // Defaults to Name
	Pattern    string
	Open       string
	Close      string
	Start      string
	End        string
	Contains   []string // Names of rules recognized only inside this rule's match
	Contained  bool     // Never matched at top level
	IgnoreCase bool
}

// compiledRule is a PatternRule with its expressions ready to use.
type compiledRule struct {
	PatternRule
	order    int // Registration index, the first-match-wins tie-break
	pattern  *regexp.Regexp
	start    *regexp.Regexp
	end      *regexp.Regexp
	body     int // Submatch index of the body group, or -1
	children []*compiledRule
}

func compileRule(r PatternRule) (*compiledRule, error) {
	if r.Name == "" {
		return nil, &InvalidRuleError{Rule: r.Name, Reason: "missing name"}
	}
	if r.Category == "" {
		r.Category = r.Name
	}
	cr := &compiledRule{PatternRule: r, body: -1}
	var err error
	switch r.Kind {
	case LinePrefix:
		if r.Pattern == "" {
			return nil, &InvalidRuleError{Rule: r.Name, Reason: "line rule needs a pattern"}
		}
		if cr.pattern, err = r.compile("pattern", r.Pattern); err != nil {
			return nil, err
		}
	case DelimitedSpan:
		expr := r.Pattern
		if expr == "" {
			if r.Open == "" || r.Close == "" {
				return nil, &InvalidRuleError{Rule: r.Name, Reason: "span rule needs a pattern or both delimiters"}
			}
			expr = regexp.QuoteMeta(r.Open) + "(?P<" + bodyGroup + ">.+?)" + regexp.QuoteMeta(r.Close)
		}
		if cr.pattern, err = r.compile("pattern", expr); err != nil {
			return nil, err
		}
	case RegionBlock:
		if r.Start == "" || r.End == "" {
			return nil, &InvalidRuleError{Rule: r.Name, Reason: "region rule needs start and end"}
		}
		if cr.start, err = r.compile("start", r.Start); err != nil {
			return nil, err
		}
		if cr.end, err = r.compile("end", r.End); err != nil {
			return nil, err
		}
	default:
		return nil, &InvalidRuleError{Rule: r.Name, Reason: "unknown kind " + r.Kind.String()}
	}
	if cr.pattern != nil {
		cr.body = cr.pattern.SubexpIndex(bodyGroup)
	}
	return cr, nil
}

// compile anchors line-oriented expressions at the start of the text they
// are run against. Span patterns stay unanchored.
func (r PatternRule) compile(field, expr string) (*regexp.Regexp, error) {
	if r.Kind != DelimitedSpan {
		expr = "^(?:" + expr + ")"
	}
	if r.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Rule: r.Name, Field: field, Err: err}
	}
	return re, nil
}
