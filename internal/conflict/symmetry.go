package conflict

import (
	"math"

	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// CorridorSymmetry recognizes a conflict that is a head-on swap across a
// chain of degree-2 vertices (a corridor) and, when found, returns a
// range constraint spanning the corridor's full traversal window instead
// of the single conflicting move — pruning the symmetric subtree of
// single-move constraints that would each only push the conflict one
// step further down the corridor (§4.F).
func CorridorSymmetry(rm *roadmap.Roadmap, c Conflict) (constraint.Negative, bool) {
	if c.MoveA.From != c.MoveB.To || c.MoveA.To != c.MoveB.From {
		return constraint.Negative{}, false // not a direct opposing-edge swap
	}
	u, v := c.MoveA.From, c.MoveA.To
	if !isDegreeTwo(rm, u) || !isDegreeTwo(rm, v) {
		return constraint.Negative{}, false
	}

	edgeDur, ok := rm.Duration(u, v)
	if !ok {
		return constraint.Negative{}, false
	}

	reachU := corridorReach(rm, v, u) // chain beyond u, away from v
	reachV := corridorReach(rm, u, v) // chain beyond v, away from u
	total := reachU + reachV + edgeDur

	// Deterministic loser: the higher agent id yields the corridor to the
	// lower one, matching the tie-break used elsewhere in this package.
	losing, entrance, start := c.A, u, c.MoveA.Start
	if c.B > c.A {
		losing, entrance, start = c.B, v, c.MoveB.Start
	}

	return constraint.Negative{
		Agent: losing,
		From:  entrance,
		To:    entrance,
		Lo:    start,
		Hi:    start + total,
	}, true
}

func isDegreeTwo(rm *roadmap.Roadmap, v roadmap.VertexID) bool {
	return len(rm.Neighbors(v)) == 2
}

// corridorReach walks the chain of degree-2 vertices starting at cur,
// having arrived from prev, accumulating edge durations until it reaches
// a vertex whose degree is not 2 (the corridor's far end).
func corridorReach(rm *roadmap.Roadmap, prev, cur roadmap.VertexID) float64 {
	total := 0.0
	for guard := 0; guard < 100000 && isDegreeTwo(rm, cur); guard++ {
		next, ok := otherNeighbor(rm, cur, prev)
		if !ok {
			break
		}
		dur, ok := rm.Duration(cur, next)
		if !ok {
			break
		}
		total += dur
		prev, cur = cur, next
	}
	return total
}

func otherNeighbor(rm *roadmap.Roadmap, v, exclude roadmap.VertexID) (roadmap.VertexID, bool) {
	for _, n := range rm.Neighbors(v) {
		if n != exclude {
			return n, true
		}
	}
	return 0, false
}

// TargetSymmetry recognizes the case where agent a's goal lies on agent
// b's remaining path after a has already arrived and is dwelling there,
// and returns the negative constraint that forbids b from occupying a's
// goal during a's dwell (§4.F).
func TargetSymmetry(paths map[instance.AgentID]instance.Path, a, b instance.AgentID, aGoal roadmap.VertexID) (constraint.Negative, bool) {
	aPath, ok := paths[a]
	if !ok || len(aPath) == 0 {
		return constraint.Negative{}, false
	}
	dwellStart := aPath[len(aPath)-1].End

	bPath, ok := paths[b]
	if !ok {
		return constraint.Negative{}, false
	}
	for _, mv := range bPath {
		if (mv.To == aGoal || mv.From == aGoal) && mv.End > dwellStart {
			return constraint.Negative{
				Agent: b,
				From:  aGoal,
				To:    aGoal,
				Lo:    dwellStart,
				Hi:    math.Inf(1),
			}, true
		}
	}
	return constraint.Negative{}, false
}
