// Package interval implements ordered, disjoint half-open time intervals
// (§4.C) and the safe-interval tables SIPP (component D) searches over.
// There is no direct teacher analogue — internal/algo/astar.go expands a
// discrete unit-timestep state space and never needs an interval
// structure at all — so this package is new code, grounded on the
// constraint-tree's own append/merge idiom (internal/algo/cbs.go,
// mirrored by constraint.Set) applied to the interval-algebra §4.C
// specifies.
package interval

import (
	"math"
	"sort"
)

// Span is a half-open interval [Lo, Hi). Hi may be +Inf.
type Span struct {
	Lo, Hi float64
}

// Contains reports whether t falls within [Lo, Hi).
func (s Span) Contains(t float64) bool {
	return t >= s.Lo && t < s.Hi
}

// Set is a sorted list of pairwise-disjoint half-open spans (I5: safe
// intervals at a vertex are pairwise disjoint and ordered by start).
type Set []Span

// Full returns the single interval [0, +Inf).
func Full() Set {
	return Set{{Lo: 0, Hi: math.Inf(1)}}
}

// normalize sorts by Lo and merges any overlapping/adjacent spans. Used
// internally so every Set this package hands back satisfies I5.
func normalize(spans []Span) Set {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Lo < spans[j].Lo })
	out := make(Set, 0, len(spans))
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.Lo <= cur.Hi {
			if s.Hi > cur.Hi {
				cur.Hi = s.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = s
	}
	out = append(out, cur)
	return out
}

// Union merges a set of (possibly overlapping/unsorted) occupied windows
// into a normalized, disjoint Set.
func Union(spans []Span) Set {
	return normalize(append([]Span(nil), spans...))
}

// Subtract returns base with every span in occupied removed, preserving
// order and disjointness (I5). base is assumed already normalized.
func Subtract(base Set, occupied Set) Set {
	if len(occupied) == 0 {
		return append(Set(nil), base...)
	}
	var out Set
	for _, b := range base {
		pieces := []Span{b}
		for _, o := range occupied {
			var next []Span
			for _, p := range pieces {
				next = append(next, subtractOne(p, o)...)
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return normalize(out)
}

// subtractOne removes o from p, returning 0, 1, or 2 resulting spans.
func subtractOne(p, o Span) []Span {
	if o.Hi <= p.Lo || o.Lo >= p.Hi {
		return []Span{p} // no overlap
	}
	var out []Span
	if o.Lo > p.Lo {
		out = append(out, Span{Lo: p.Lo, Hi: o.Lo})
	}
	if o.Hi < p.Hi {
		out = append(out, Span{Lo: o.Hi, Hi: p.Hi})
	}
	return out
}

// Contains reports whether t falls within any span of the set.
func (set Set) Contains(t float64) bool {
	for _, s := range set {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

// SpanContaining returns the span of the set that contains t, if any.
func (set Set) SpanContaining(t float64) (Span, bool) {
	for _, s := range set {
		if s.Contains(t) {
			return s, true
		}
	}
	return Span{}, false
}

// IndexContaining returns the index of the span containing t, or -1.
func (set Set) IndexContaining(t float64) int {
	for i, s := range set {
		if s.Contains(t) {
			return i
		}
	}
	return -1
}

// Extends reports whether the span at index i extends to +Inf — the SIPP
// goal condition (§4.D: "interval i extends to +infinity").
func (set Set) Extends(i int) bool {
	if i < 0 || i >= len(set) {
		return false
	}
	return math.IsInf(set[i].Hi, 1)
}
