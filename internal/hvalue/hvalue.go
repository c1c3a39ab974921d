// Package hvalue computes the admissible high-level h-value (§4.G): an
// additional-cost lower bound derived from the graph of cardinal
// conflicts in the current node.
//
// Grounded on the retrieval pack's own gonum usage (the gonum graph
// search files under other_examples/) and on gonum's
// optimize/convex/lp.Simplex for the LP relaxation variant — no example
// repo computes a CBS-style h-value directly, so the LP formulation
// itself (minimum weighted vertex cover relaxation) is new code built on
// a library the corpus already exercises for numerical work.
package hvalue

import (
	"sort"

	"github.com/elektrokombinacija/ccbs/internal/instance"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Type selects which of §4.G's three h-value computations to use.
type Type int

const (
	TypeNone   Type = iota // hlh_type=0: h=0
	TypeLP                 // hlh_type=1: LP relaxation
	TypeGreedy             // hlh_type=2: greedy min(Δa,Δb) selection
)

// Edge is one cardinal-conflicting pair in the current node's conflict
// graph H'. Weight is an admissible lower bound on the cost any
// descendant pays to resolve this conflict — min(Δa,Δb) from §4.F's
// classification replans.
type Edge struct {
	A, B   instance.AgentID
	Weight float64
}

// Compute dispatches to the configured h-value computation.
func Compute(t Type, edges []Edge) float64 {
	switch t {
	case TypeLP:
		return computeLP(edges)
	case TypeGreedy:
		return computeGreedy(edges)
	default:
		return 0
	}
}

// computeLP solves the LP relaxation of minimum weighted vertex cover
// over H': minimize Σ x_v subject to x_a + x_b ≥ w(a,b) for every
// conflict edge, x_v ≥ 0. Any integral solution to the true (NP-hard)
// weighted vertex cover problem pays at least this much, so the LP
// optimum is an admissible lower bound. Converted to gonum's equality
// standard form via one surplus variable per edge: x_a + x_b - s_e =
// w(a,b), s_e ≥ 0.
func computeLP(edges []Edge) float64 {
	if len(edges) == 0 {
		return 0
	}
	agents := collectAgents(edges)
	n, m := len(agents), len(edges)
	idx := make(map[instance.AgentID]int, n)
	for i, a := range agents {
		idx[a] = i
	}

	nvars := n + m
	c := make([]float64, nvars)
	for i := range agents {
		c[i] = 1
	}

	Adata := make([]float64, m*nvars)
	b := make([]float64, m)
	for e, edge := range edges {
		row := e * nvars
		Adata[row+idx[edge.A]] = 1
		Adata[row+idx[edge.B]] = 1
		Adata[row+n+e] = -1
		b[e] = edge.Weight
	}
	A := mat.NewDense(m, nvars, Adata)

	_, xs, err := lp.Simplex(nil, c, A, b, 0)
	if err != nil {
		// An LP failure (degenerate/unbounded input) must never make the
		// search unsound — fall back to the always-admissible h=0.
		return 0
	}
	total := 0.0
	for i := range agents {
		total += xs[i]
	}
	return total
}

// computeGreedy repeatedly selects the conflict with the largest weight,
// adds it to h, and removes every edge incident to either of its agents
// (§4.G Type 2). Cheaper than the LP but still admissible: each selected
// edge's weight is paid by agents that appear in no other selected edge.
func computeGreedy(edges []Edge) float64 {
	remaining := append([]Edge(nil), edges...)
	removed := make(map[instance.AgentID]bool)
	h := 0.0

	for {
		var avail []Edge
		for _, e := range remaining {
			if removed[e.A] || removed[e.B] {
				continue
			}
			avail = append(avail, e)
		}
		if len(avail) == 0 {
			return h
		}
		sort.Slice(avail, func(i, j int) bool {
			if avail[i].Weight != avail[j].Weight {
				return avail[i].Weight > avail[j].Weight
			}
			if avail[i].A != avail[j].A {
				return avail[i].A < avail[j].A
			}
			return avail[i].B < avail[j].B
		})
		best := avail[0]
		h += best.Weight
		removed[best.A] = true
		removed[best.B] = true
		remaining = avail
	}
}

func collectAgents(edges []Edge) []instance.AgentID {
	seen := make(map[instance.AgentID]bool)
	var out []instance.AgentID
	for _, e := range edges {
		if !seen[e.A] {
			seen[e.A] = true
			out = append(out, e.A)
		}
		if !seen[e.B] {
			seen[e.B] = true
			out = append(out, e.B)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
