// Package constraint implements the multi-constraint aggregator (§4.J,
// component J) and the Negative/Positive constraint types of §3. Mirrors
// the teacher's immutable-append constraint-tree idea (internal/algo/cbs.go
// builds each child's constraint list via
// append(append([]Constraint{}, parent...), new) — see cbsNode.constraints)
// but splits the teacher's single flat Constraint struct into the two
// distinct shapes §3 defines, and adds the merge/dedupe rules §4.J
// requires that the teacher never needed (it has only one constraint
// kind, so it never merges or rejects anything).
package constraint

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// Negative forbids an agent from beginning to traverse edge (From,To) at
// any start time in [Lo,Hi). From==To encodes "may not be waiting at
// From during [Lo,Hi)" (§4.C).
type Negative struct {
	Agent    instance.AgentID
	From, To roadmap.VertexID
	Lo, Hi   float64
}

// Positive requires an agent to traverse edge (From,To) starting exactly
// at Start (used only with disjoint splitting, §3).
type Positive struct {
	Agent    instance.AgentID
	From, To roadmap.VertexID
	Start    float64
}

// edgeKey identifies a directed edge for an agent.
type edgeKey struct {
	Agent    instance.AgentID
	From, To roadmap.VertexID
}

// Set is an immutable collection of constraints inherited along a
// constraint-tree path (HLN.constraints, §3). Building a child Set never
// mutates the parent's slices — every With* method returns a new Set,
// matching the teacher's copy-on-append style and §5's "share read-only
// with descendants" requirement.
type Set struct {
	negatives []Negative
	positives []Positive
}

// Empty is the root constraint set.
var Empty = Set{}

// Negatives returns every negative constraint applying to agent a.
func (s Set) Negatives(a instance.AgentID) []Negative {
	var out []Negative
	for _, n := range s.negatives {
		if n.Agent == a {
			out = append(out, n)
		}
	}
	return out
}

// Positives returns every positive constraint applying to agent a.
func (s Set) Positives(a instance.AgentID) []Positive {
	var out []Positive
	for _, p := range s.positives {
		if p.Agent == a {
			out = append(out, p)
		}
	}
	return out
}

// AllNegatives returns every negative constraint in the set, across all
// agents, in insertion order.
func (s Set) AllNegatives() []Negative { return s.negatives }

// AllPositives returns every positive constraint in the set, across all
// agents, in insertion order.
func (s Set) AllPositives() []Positive { return s.positives }

// WithNegative returns a new Set with n added, merging it with any
// adjacent or overlapping negative constraint already present for the
// same agent and directed edge (§4.J). Constraints never shrink: merging
// only ever widens the forbidden window.
func (s Set) WithNegative(n Negative) Set {
	next := make([]Negative, 0, len(s.negatives)+1)
	merged := n
	mergedAny := false
	for _, existing := range s.negatives {
		if existing.Agent == merged.Agent && existing.From == merged.From && existing.To == merged.To &&
			intervalsTouch(existing.Lo, existing.Hi, merged.Lo, merged.Hi) {
			merged = Negative{
				Agent: merged.Agent, From: merged.From, To: merged.To,
				Lo: min(existing.Lo, merged.Lo),
				Hi: max(existing.Hi, merged.Hi),
			}
			mergedAny = true
			continue
		}
		next = append(next, existing)
	}
	next = append(next, merged)
	_ = mergedAny
	return Set{negatives: next, positives: s.positives}
}

// WithPositive returns a new Set with p added. A duplicate positive
// constraint on the same agent that names a different edge or start time
// than one already present makes the resulting branch infeasible (§4.J:
// "duplicate positive constraints are rejected as infeasible siblings").
func (s Set) WithPositive(p Positive) (Set, error) {
	for _, existing := range s.positives {
		if existing.Agent == p.Agent {
			if existing.From == p.From && existing.To == p.To && existing.Start == p.Start {
				return s, nil // identical, no-op
			}
			return s, fmt.Errorf("constraint: agent %d already has an incompatible positive constraint", p.Agent)
		}
	}
	next := make([]Positive, len(s.positives), len(s.positives)+1)
	copy(next, s.positives)
	next = append(next, p)
	return Set{negatives: s.negatives, positives: next}, nil
}

// intervalsTouch reports whether [aLo,aHi) and [bLo,bHi) overlap or are
// adjacent (share an endpoint), the condition under which §4.J merges
// them into one wider interval.
func intervalsTouch(aLo, aHi, bLo, bHi float64) bool {
	return aLo <= bHi && bLo <= aHi
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// SortedByAgent returns a copy of the negative constraints sorted by
// (agent, from, to, lo), an order independent of insertion order.
func (s Set) SortedByAgent() []Negative {
	out := make([]Negative, len(s.negatives))
	copy(out, s.negatives)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Agent != out[j].Agent {
			return out[i].Agent < out[j].Agent
		}
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Lo < out[j].Lo
	})
	return out
}
