// Package policy implements the branching-policy interface (§4.I): given
// a node's list of candidate conflicts, decide which one the high-level
// search should split on next.
//
// Grounded on the teacher's internal/algo/mcts.go, which already
// separates "policy decides which action to take" from "core executes
// it" for a learned RL component; this package keeps that separation but
// narrows the policy's job to a single argmax-over-conflicts decision,
// matching §4.I and §9's "runtime-pluggable branching scorer" note.
package policy

import (
	"sort"

	"github.com/elektrokombinacija/ccbs/internal/conflict"
	"github.com/elektrokombinacija/ccbs/internal/instance"
)

// Observation is the fixed-length, per-conflict feature vector a scorer
// receives. Fields mirror what §4.I calls out: classification code,
// depth, time-to-conflict, and Δ estimates when available.
type Observation struct {
	Class          conflict.Class
	Depth          int
	TimeToConflict float64
	DeltaA, DeltaB float64
	HasDeltas      bool
	AgentA, AgentB instance.AgentID
}

// Scorer picks the index of the conflict to branch on next, given the
// observations for all of a node's k conflicts. Implementations are
// black boxes to the core: §4.I requires the search to work correctly
// regardless of whether Score is deterministic. The search loop calls
// Score once per expansion and uses the returned index directly; it does
// not store the index on the node.
type Scorer interface {
	Score(observations []Observation) int
}

// Heuristic is the deterministic default scorer (§4.I): cardinal
// conflicts first, then semi-cardinal, then by earliest time-to-conflict,
// then by the (agentA,agentB) tuple.
type Heuristic struct{}

func classRank(c conflict.Class) int {
	switch c {
	case conflict.Cardinal:
		return 0
	case conflict.SemiCardinal:
		return 1
	default:
		return 2
	}
}

func (Heuristic) Score(observations []Observation) int {
	if len(observations) == 0 {
		return -1
	}
	order := make([]int, len(observations))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		oi, oj := observations[order[i]], observations[order[j]]
		ri, rj := classRank(oi.Class), classRank(oj.Class)
		if ri != rj {
			return ri < rj
		}
		if oi.TimeToConflict != oj.TimeToConflict {
			return oi.TimeToConflict < oj.TimeToConflict
		}
		if oi.AgentA != oj.AgentA {
			return oi.AgentA < oj.AgentA
		}
		return oi.AgentB < oj.AgentB
	})
	return order[0]
}

// LearnedScorer adapts an external scoring function — e.g. a trained
// model loaded outside this module — into a Scorer. Training and
// persistence of that function are explicitly out of scope (§9): the
// core only ever calls Fn.
type LearnedScorer struct {
	Fn func(observations []Observation) int
}

func (l LearnedScorer) Score(observations []Observation) int {
	return l.Fn(observations)
}
