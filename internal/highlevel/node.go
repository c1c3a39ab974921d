// Package highlevel implements the CBS-style high-level search (§4.H): a
// best-first search over a constraint tree whose nodes (HLNs) live in an
// arena indexed by integer rather than holding parent pointers directly
// (§9: "use an arena of nodes indexed by integer; parent is an index").
//
// Grounded on the teacher's internal/algo/cbs.go (cbsNode/cbsHeap/Solve):
// same container/heap best-first loop and two-children branching shape,
// generalized from a single flat Constraint type to constraint.Set's
// Negative/Positive pair, from discrete-time conflicts to continuous
// ones (internal/conflict), and with disjoint splitting, corridor and
// target symmetry, and a pluggable h-value/branching-policy layered on
// top — none of which the teacher's plain CBS needed.
package highlevel

import (
	"github.com/elektrokombinacija/ccbs/internal/conflict"
	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/instance"
)

// conflictInfo caches one conflict's classification and replan deltas so
// they are computed once per node rather than once per branching decision.
type conflictInfo struct {
	c              conflict.Conflict
	class          conflict.Class
	deltaA, deltaB float64
	feasA, feasB   bool
}

// hlNode is one constraint-tree node. Paths and constraints are shared
// read-only with ancestors wherever unchanged — building a child only
// ever replaces the replanned agents' path slots and appends constraints
// (§5, §9 "shared immutable paths").
type hlNode struct {
	parent      int
	constraints constraint.Set
	paths       map[instance.AgentID]instance.Path
	g           float64
	h           float64
	infos       []conflictInfo
	classified  bool
}

func (n *hlNode) f() float64 { return n.g + n.h }

func sumDurations(paths map[instance.AgentID]instance.Path) float64 {
	total := 0.0
	for _, p := range paths {
		total += p.Duration()
	}
	return total
}

func maxDuration(paths map[instance.AgentID]instance.Path) float64 {
	max := 0.0
	for _, p := range paths {
		if d := p.Duration(); d > max {
			max = d
		}
	}
	return max
}

func clonePaths(src map[instance.AgentID]instance.Path) map[instance.AgentID]instance.Path {
	out := make(map[instance.AgentID]instance.Path, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// arena owns every hlNode ever created during one Search call, indexed
// by its position — the integer-indexed arena of §9.
type arena struct {
	nodes []hlNode
}

func (a *arena) add(n hlNode) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) get(idx int) *hlNode { return &a.nodes[idx] }
