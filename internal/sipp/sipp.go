// Package sipp implements the low-level single-agent Safe-Interval Path
// Planner (§4.D, component D): a best-first search over (vertex, safe
// interval) states that produces a minimum-duration timed path subject to
// a constraint set.
//
// Grounded on the teacher's internal/algo/astar.go (SpaceTimeAStar): same
// container/heap-backed open list, same parent-pointer path
// reconstruction, same "violates" predicate gating successor generation.
// Generalized from astar.go's discrete unit-timestep state
// (SpaceTimeState{V,T} with nextT := T+1.0) to SIPP's continuous
// (vertex, safe-interval) state, and from astar.go's flat per-(v,t)
// constraint check to querying the §4.C safe-interval table built by
// interval.Build.
package sipp

import (
	"container/heap"
	"errors"
	"time"

	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/interval"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// ErrDeadlineExceeded is returned when the wall-clock deadline is hit
// during search — distinct from an ordinary NoPath result, since it
// signals the whole high-level search should abort (§5: "SIPP itself
// checks the deadline at each node pop").
var ErrDeadlineExceeded = errors.New("sipp: deadline exceeded")

// DefaultPrecision is the default π used to decide "close enough" when
// intersecting safe intervals to find the earliest feasible departure
// (§4.D). Callers may supply a tighter or looser value via Plan's
// precision parameter.
const DefaultPrecision = 1e-9

// state is a (vertex, safe-interval index) pair — the SIPP search state.
type state struct {
	v        roadmap.VertexID
	interval int
}

type node struct {
	st         state
	g          float64 // arrival time at st (cost so far)
	tdep       float64 // departure time from parent.st.v that produced this node
	f          float64
	parent     *node
	viaFrom    roadmap.VertexID
	order      int // neighbor stable-order rank, for tie-break
	destIdxKey int // destination interval index, for tie-break
	index      int // heap index
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].order != h[j].order {
		return h[i].order < h[j].order
	}
	return h[i].destIdxKey < h[j].destIdxKey
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Plan runs SIPP for one agent from start to goal under the constraint
// set cs, returning the minimum-duration path. found=false (nil error)
// means §4.D's NoPath — an ordinary, non-exceptional signal to the
// caller to treat this HLN's g as +Inf. A non-nil error is only
// ErrDeadlineExceeded.
func Plan(
	rm *roadmap.Roadmap,
	agent instance.AgentID,
	start, goal roadmap.VertexID,
	cs constraint.Set,
	vertices []roadmap.VertexID,
	precision float64,
	deadline time.Time,
) (instance.Path, bool, error) {
	if precision <= 0 {
		precision = DefaultPrecision
	}

	table := interval.Build(cs, agent, vertices)
	positives := cs.Positives(agent)

	startSafe := table.VertexSafe(start)
	startIdx := startSafe.IndexContaining(0)
	if startIdx < 0 {
		return nil, false, nil // start vertex itself is forbidden at t=0
	}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &node{
		st: state{v: start, interval: startIdx},
		g:  0,
		f:  rm.Heuristic(start, goal),
	})

	visited := make(map[state]bool)

	for open.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, false, ErrDeadlineExceeded
		}

		cur := heap.Pop(open).(*node)
		if visited[cur.st] {
			continue
		}
		visited[cur.st] = true

		safeAtV := table.VertexSafe(cur.st.v)
		if cur.st.v == goal && safeAtV.Extends(cur.st.interval) {
			return reconstruct(agent, cur), true, nil
		}

		forced, hasForced := forcedDeparture(positives, cur.st.v, cur.g, safeAtV[cur.st.interval])

		neighbors := rm.Neighbors(cur.st.v)
		for order, w := range neighbors {
			if hasForced && w != forced.to {
				continue
			}
			dur, ok := rm.Duration(cur.st.v, w)
			if !ok {
				continue
			}

			edgeAllowed := table.EdgeAllowedStart(cur.st.v, w)
			wSafe := table.VertexSafe(w)

			var tdep float64
			var destIdx int
			var found bool
			if hasForced {
				tdep, destIdx, found = exactDeparture(forced.start, edgeAllowed, wSafe, dur, cur.g, safeAtV[cur.st.interval])
			} else {
				tdep, destIdx, found = earliestDeparture(cur.g, safeAtV[cur.st.interval], edgeAllowed, wSafe, dur)
			}
			if !found {
				continue
			}

			arrival := tdep + dur
			succ := state{v: w, interval: destIdx}
			if visited[succ] {
				continue
			}

			n := &node{
				st:         succ,
				g:          arrival,
				tdep:       tdep,
				f:          arrival + rm.Heuristic(w, goal),
				parent:     cur,
				viaFrom:    cur.st.v,
				order:      order,
				destIdxKey: destIdx,
			}
			heap.Push(open, n)
		}
	}

	return nil, false, nil
}

type forcedMove struct {
	to    roadmap.VertexID
	start float64
}

// forcedDeparture reports whether a positive constraint mandates a
// specific departure from v within the current interval, at or after the
// current arrival time g.
func forcedDeparture(positives []constraint.Positive, v roadmap.VertexID, g float64, cur interval.Span) (forcedMove, bool) {
	for _, p := range positives {
		if p.From == v && p.Start >= g-1e-9 && cur.Contains(p.Start) {
			return forcedMove{to: p.To, start: p.Start}, true
		}
	}
	return forcedMove{}, false
}

// exactDeparture checks the single mandated departure time imposed by a
// positive constraint.
func exactDeparture(tdep float64, edgeAllowed, wSafe interval.Set, dur, g float64, cur interval.Span) (float64, int, bool) {
	if tdep < g-1e-9 || !cur.Contains(tdep) {
		return 0, 0, false
	}
	if !edgeAllowed.Contains(tdep) {
		return 0, 0, false
	}
	arrival := tdep + dur
	idx := wSafe.IndexContaining(arrival)
	if idx < 0 {
		return 0, 0, false
	}
	return tdep, idx, true
}

// earliestDeparture finds the smallest t_dep >= g, t_dep in cur, such
// that t_dep lies in some edge-allowed-start span and t_dep+dur lies in
// some destination safe interval (§4.D). This is the "root-finding /
// interval-intersection routine" the spec calls out: since every input
// set is a finite union of half-open spans, the earliest feasible instant
// is exactly the minimum lower bound of a finite set of intersected
// windows — no iterative refinement is needed (unlike §4.B's geometric
// root-finding, this intersection is between spans, not quadratics).
func earliestDeparture(g float64, cur interval.Span, edgeAllowed, wSafe interval.Set, dur float64) (float64, int, bool) {
	bestLo := 0.0
	bestIdx := -1
	found := false

	for _, e := range edgeAllowed {
		lo1 := maxf(g, cur.Lo, e.Lo)
		hi1 := minf(cur.Hi, e.Hi)
		if lo1 >= hi1 {
			continue
		}
		for idx, j := range wSafe {
			lo := maxf(lo1, j.Lo-dur)
			hi := minf(hi1, j.Hi-dur)
			if lo >= hi {
				continue
			}
			if !found || lo < bestLo-1e-9 || (absf(lo-bestLo) <= 1e-9 && idx < bestIdx) {
				bestLo = lo
				bestIdx = idx
				found = true
			}
		}
	}
	return bestLo, bestIdx, found
}

func maxf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// reconstruct walks the parent chain back to the root, emitting one edge
// move per step plus an explicit wait move (From==To) whenever the
// departure time recorded on the node is later than the arrival time at
// its parent — i.e. the agent sat at viaFrom for a while before departing.
// Without the wait move, folding the dwell into the edge move's [Start,End)
// would make the edge traversal itself look slower than unit speed.
func reconstruct(agent instance.AgentID, n *node) instance.Path {
	var moves []instance.Move
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		moves = append([]instance.Move{{
			Agent: agent,
			From:  cur.viaFrom,
			To:    cur.st.v,
			Start: cur.tdep,
			End:   cur.g,
		}}, moves...)
		if cur.tdep > cur.parent.g+1e-9 {
			moves = append([]instance.Move{{
				Agent: agent,
				From:  cur.viaFrom,
				To:    cur.viaFrom,
				Start: cur.parent.g,
				End:   cur.tdep,
			}}, moves...)
		}
	}
	return instance.Path(moves)
}
