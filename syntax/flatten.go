package syntax

// A Segment is a run of text carrying exactly one category.
type Segment struct {
	Category string
	Start    int
	End      int
}

// Flatten turns match trees into position-ordered, non-overlapping
// segments. Text covered by a nested result takes the nested category;
// the rest of a parent's span keeps the parent's category.
func Flatten(results []MatchResult) []Segment {
	var segs []Segment
	for _, m := range results {
		segs = flattenInto(segs, m, m.Start, m.End)
	}
	return segs
}

func flattenInto(segs []Segment, m MatchResult, lo, hi int) []Segment {
	start, end := max(m.Start, lo), min(m.End, hi)
	if start >= end {
		return segs
	}
	cursor := start
	for _, child := range m.Nested {
		cs, ce := max(child.Start, cursor), min(child.End, end)
		if cs >= ce {
			continue
		}
		if cs > cursor {
			segs = append(segs, Segment{Category: m.Category, Start: cursor, End: cs})
		}
		segs = flattenInto(segs, child, cs, ce)
		cursor = ce
	}
	if cursor < end {
		segs = append(segs, Segment{Category: m.Category, Start: cursor, End: end})
	}
	return segs
}
