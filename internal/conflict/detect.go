// Package conflict implements the pairwise conflict detector (§4.E) and
// the classification and symmetry-breaking rules (§4.F) the high-level
// search uses to pick and strengthen constraints.
//
// Grounded on the teacher's internal/algo/solver.go, which already
// defines Conflict/FindFirstConflict/FindAllConflicts for discrete
// space-time paths; this package keeps that two-function shape
// (earliest-only vs. all-conflicts) but swaps the discrete per-timestep
// equality check for geom.Collides over continuous move spans.
package conflict

import (
	"sort"

	"github.com/elektrokombinacija/ccbs/internal/geom"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// Conflict is a pairwise overlap between agent A's move MoveA and agent
// B's move MoveB. A is always the smaller agent id.
type Conflict struct {
	A, B  instance.AgentID
	MoveA instance.Move
	MoveB instance.Move
}

// earliestStart is the sort/tie-break key §4.E prescribes: the smaller
// start time of the two moves, ties broken by the (agent,agent) pair.
func earliestStart(c Conflict) float64 {
	if c.MoveA.Start < c.MoveB.Start {
		return c.MoveA.Start
	}
	return c.MoveB.Start
}

func less(a, b Conflict) bool {
	sa, sb := earliestStart(a), earliestStart(b)
	if sa != sb {
		return sa < sb
	}
	if a.A != b.A {
		return a.A < b.A
	}
	return a.B < b.B
}

// FindAll returns every pairwise conflict across the given paths, sorted
// by the §4.E tie-break so callers (classification, symmetry detection)
// see a deterministic order.
func FindAll(rm *roadmap.Roadmap, paths map[instance.AgentID]instance.Path, r float64) []Conflict {
	ids := make([]instance.AgentID, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []Conflict
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			for _, ma := range paths[a] {
				for _, mb := range paths[b] {
					if ma.Start >= mb.End || mb.Start >= ma.End {
						continue // no time overlap
					}
					if collide(rm, ma, mb, r) {
						out = append(out, Conflict{A: a, B: b, MoveA: ma, MoveB: mb})
					}
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FindEarliest returns only the earliest conflict (§4.E), for plain
// first-conflict expansion. It collects every conflict through FindAll
// and returns the first in sorted order.
func FindEarliest(rm *roadmap.Roadmap, paths map[instance.AgentID]instance.Path, r float64) (Conflict, bool) {
	all := FindAll(rm, paths, r)
	if len(all) == 0 {
		return Conflict{}, false
	}
	return all[0], true
}

func collide(rm *roadmap.Roadmap, ma, mb instance.Move, r float64) bool {
	spanA := geom.Span{
		From: rm.Vertex(ma.From).Pos, To: rm.Vertex(ma.To).Pos,
		Start: ma.Start, End: ma.End,
	}
	spanB := geom.Span{
		From: rm.Vertex(mb.From).Pos, To: rm.Vertex(mb.To).Pos,
		Start: mb.Start, End: mb.End,
	}
	return geom.Collides(spanA, spanB, r)
}

// CollisionInterval wraps §4.B's CollisionInterval for a conflicting
// pair, returning the half-open start-time range within which "mover"
// (traversing from→to in dur seconds) still collides with the fixed
// move. Used by the high-level search to build the negative constraint
// that resolves this conflict for the chosen agent.
func CollisionInterval(fixed instance.Move, rm *roadmap.Roadmap, from, to roadmap.VertexID, r, eps float64) (lo, hi float64, ok bool) {
	dur, found := rm.Duration(from, to)
	if !found {
		return 0, 0, false
	}
	fixedSpan := geom.Span{
		From: rm.Vertex(fixed.From).Pos, To: rm.Vertex(fixed.To).Pos,
		Start: fixed.Start, End: fixed.End,
	}
	return geom.CollisionInterval(fixedSpan, rm.Vertex(from).Pos, rm.Vertex(to).Pos, dur, r, eps)
}
