/*
Package syntax tags regions of texdown text with display categories.

A Catalog holds an ordered list of named PatternRules. Rules come in three
kinds: line rules match at the start of a line, span rules match inline text
between two delimiters on a single line, and region rules match a block of
lines from a start line to an end line. A rule may name child rules in its
Contains list; those are only looked for inside the text the parent matched.

Scanning never fails. Whatever the input, Scan yields a (possibly empty)
sequence of MatchResults, which are transient and belong to the caller.
*/
package syntax

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'texdown'
func tracer() tracing.Trace {
	return tracing.Select("texdown")
}
