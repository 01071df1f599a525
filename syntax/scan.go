package syntax

import (
	"iter"
	"strings"
)

// MatchResult tags the text between byte offsets Start (inclusive) and End
// (exclusive) of a scanned buffer with a category. Nested holds the matches
// of the rule's contained rules, ordered by position and lying within
// [Start, End).
type MatchResult struct {
	Rule     string
	Category string
	Start    int
	End      int
	Nested   []MatchResult
}

// Text returns the matched text from the buffer the result was scanned from.
func (m MatchResult) Text(text string) string {
	if m.Start < 0 || m.End > len(text) || m.Start > m.End {
		return ""
	}
	return text[m.Start:m.End]
}

const (
	// maxNesting bounds recursion through Contains, including rules which
	// contain themselves.
	maxNesting = 8
	// maxSpanLine bounds the bytes of a single line searched by span rules.
	// Anything beyond it on the same line is left untagged by span rules.
	maxSpanLine = 64 << 10
)

// Scan tags text with the catalog's top-level rules. Results come in
// buffer order and never overlap. Where two rules want overlapping text,
// the one registered first keeps it. Each result's nested results are
// worked out only when the result is yielded.
//
// Scan on a catalog that has not been finalized yields nothing.
func (c *Catalog) Scan(text string) iter.Seq[MatchResult] {
	return func(yield func(MatchResult) bool) {
		if !c.finalized || len(text) == 0 {
			return
		}
		for _, cd := range claim(text, 0, len(text), c.topLevel) {
			if !yield(cd.result(text, 1)) {
				return
			}
		}
	}
}

// ScanAll collects the results of Scan.
func (c *Catalog) ScanAll(text string) []MatchResult {
	var results []MatchResult
	for m := range c.Scan(text) {
		results = append(results, m)
	}
	return results
}

// candidate is a match of one rule before first-match-wins is applied.
// [outerStart, outerEnd) is the text the rule consumes, delimiters
// included; [start, end) is what gets reported; [winStart, winEnd) is
// where child rules are looked for.
type candidate struct {
	rule                 *compiledRule
	outerStart, outerEnd int
	start, end           int
	winStart, winEnd     int
}

func (cd candidate) result(text string, depth int) MatchResult {
	m := MatchResult{
		Rule:     cd.rule.Name,
		Category: cd.rule.Category,
		Start:    cd.start,
		End:      cd.end,
	}
	if len(cd.rule.children) > 0 && depth < maxNesting && cd.winEnd > cd.winStart {
		for _, child := range claim(text, cd.winStart, cd.winEnd, cd.rule.children) {
			m.Nested = append(m.Nested, child.result(text, depth+1))
		}
	}
	return m
}

// claim runs rules in order over text[lo:hi] and keeps each candidate that
// does not overlap one kept earlier. The result is sorted by position.
func claim(text string, lo, hi int, rules []*compiledRule) []candidate {
	var kept []candidate
	for _, r := range rules {
		if found := r.find(text, lo, hi); len(found) > 0 {
			kept = mergeClaims(kept, found)
		}
	}
	return kept
}

// mergeClaims merges two position-sorted, internally non-overlapping lists.
// Entries of found that overlap anything in kept are dropped.
func mergeClaims(kept, found []candidate) []candidate {
	out := make([]candidate, 0, len(kept)+len(found))
	i := 0
	for _, cd := range found {
		for i < len(kept) && kept[i].outerEnd <= cd.outerStart {
			out = append(out, kept[i])
			i++
		}
		if i < len(kept) && kept[i].outerStart < cd.outerEnd {
			continue // an earlier rule owns this text
		}
		out = append(out, cd)
	}
	return append(out, kept[i:]...)
}

func (r *compiledRule) find(text string, lo, hi int) []candidate {
	switch r.Kind {
	case LinePrefix:
		return r.findLines(text, lo, hi)
	case DelimitedSpan:
		return r.findSpans(text, lo, hi)
	case RegionBlock:
		return r.findRegions(text, lo, hi)
	}
	return nil
}

func (r *compiledRule) findLines(text string, lo, hi int) []candidate {
	var found []candidate
	for ls := lo; ls < hi; {
		le := lineEnd(text, ls, hi)
		if atLineStart(text, ls) {
			if m := r.pattern.FindStringSubmatchIndex(text[ls:le]); m != nil && m[1] > 0 {
				cd := candidate{rule: r, outerStart: ls, outerEnd: ls + m[1], start: ls, end: ls + m[1]}
				cd.winStart, cd.winEnd = cd.start, cd.end
				if b := r.body; b >= 0 && m[2*b] >= 0 {
					cd.winStart, cd.winEnd = ls+m[2*b], ls+m[2*b+1]
				}
				found = append(found, cd)
			}
		}
		ls = le + 1
	}
	return found
}

func (r *compiledRule) findSpans(text string, lo, hi int) []candidate {
	var found []candidate
	for ls := lo; ls < hi; {
		le := lineEnd(text, ls, hi)
		limit := le
		if limit-ls > maxSpanLine {
			limit = ls + maxSpanLine
		}
		for _, m := range r.pattern.FindAllStringSubmatchIndex(text[ls:limit], -1) {
			bs, be := m[0], m[1]
			if b := r.body; b >= 0 {
				if m[2*b] < 0 {
					continue
				}
				bs, be = m[2*b], m[2*b+1]
			}
			if be <= bs {
				continue // adjacent delimiters enclose nothing
			}
			found = append(found, candidate{
				rule:       r,
				outerStart: ls + m[0], outerEnd: ls + m[1],
				start: ls + bs, end: ls + be,
				winStart: ls + bs, winEnd: ls + be,
			})
		}
		ls = le + 1
	}
	return found
}

func (r *compiledRule) findRegions(text string, lo, hi int) []candidate {
	var found []candidate
	for ls := lo; ls < hi; {
		le := lineEnd(text, ls, hi)
		if !atLineStart(text, ls) || !r.start.MatchString(text[ls:le]) {
			ls = le + 1
			continue
		}
		// An unterminated region runs to the end of the window.
		end, next := hi, hi
		if end > ls && text[end-1] == '\n' {
			end--
		}
		for ns := le + 1; ns < hi; {
			ne := lineEnd(text, ns, hi)
			if r.end.MatchString(text[ns:ne]) {
				end, next = ne, ne+1
				break
			}
			ns = ne + 1
		}
		if end > ls {
			found = append(found, candidate{
				rule:       r,
				outerStart: ls, outerEnd: end,
				start: ls, end: end,
				winStart: ls, winEnd: end,
			})
		}
		ls = next
	}
	return found
}

// lineEnd returns the offset of the newline ending the line at ls, or hi.
func lineEnd(text string, ls, hi int) int {
	if i := strings.IndexByte(text[ls:hi], '\n'); i >= 0 {
		return ls + i
	}
	return hi
}

func atLineStart(text string, pos int) bool {
	return pos == 0 || text[pos-1] == '\n'
}
