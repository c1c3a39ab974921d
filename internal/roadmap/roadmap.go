// Package roadmap models the undirected weighted graph CCBS plans over
// (§3 DATA MODEL, component A of §2). It mirrors the shape of the teacher's
// core.Workspace (internal/core/workspace.go in the retrieved corpus) —
// an adjacency-list graph of *Vertex keyed by ID plus per-vertex edge
// slices — generalized from arbitrary edge "cost" to a fixed Euclidean
// edge duration at unit speed, per §3.
package roadmap

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/elektrokombinacija/ccbs/internal/geom"
)

// VertexID uniquely identifies a vertex.
type VertexID int64

// Vertex is a roadmap location with 2-D coordinates.
type Vertex struct {
	ID  VertexID
	Pos geom.Point
}

// Edge connects two vertices; Duration is the fixed unit-speed traversal
// time, equal to the Euclidean distance between the endpoints (§3).
type Edge struct {
	From, To VertexID
	Duration float64
}

// Roadmap is an undirected graph G=(V,E) with 2-D vertex coordinates.
type Roadmap struct {
	vertices map[VertexID]*Vertex
	edges    map[VertexID][]Edge

	// neighborOrder is the precomputed, stable tie-break ordering of each
	// vertex's outgoing neighbors (§4.A), fixed at construction time.
	neighborOrder map[VertexID][]VertexID

	// heuristics caches a reverse-Dijkstra shortest-path table per goal
	// vertex (§4.A), lazily populated. Not goroutine-safe; per §5 the
	// core is single-threaded and this table is immutable once built for
	// a given goal, so concurrent solver runs over distinct goals would
	// need their own Roadmap or external synchronization.
	heuristics map[VertexID]map[VertexID]float64
}

// New creates an empty roadmap.
func New() *Roadmap {
	return &Roadmap{
		vertices:      make(map[VertexID]*Vertex),
		edges:         make(map[VertexID][]Edge),
		neighborOrder: make(map[VertexID][]VertexID),
		heuristics:    make(map[VertexID]map[VertexID]float64),
	}
}

// AddVertex registers a vertex. It does not check for duplicates: a
// repeated ID replaces the earlier vertex, and a position that coincides
// with an existing vertex is accepted here and only reported by Validate
// (§3: "no two vertices coincide").
func (r *Roadmap) AddVertex(v Vertex) {
	r.vertices[v.ID] = &Vertex{ID: v.ID, Pos: v.Pos}
	if r.edges[v.ID] == nil {
		r.edges[v.ID] = []Edge{}
	}
}

// AddEdge adds a bidirectional edge whose duration is the Euclidean
// distance between its endpoints at unit speed.
func (r *Roadmap) AddEdge(a, b VertexID) error {
	va, ok := r.vertices[a]
	if !ok {
		return fmt.Errorf("roadmap: edge references unknown vertex %d", a)
	}
	vb, ok := r.vertices[b]
	if !ok {
		return fmt.Errorf("roadmap: edge references unknown vertex %d", b)
	}
	d := geom.Dist(va.Pos, vb.Pos)
	r.edges[a] = append(r.edges[a], Edge{From: a, To: b, Duration: d})
	r.edges[b] = append(r.edges[b], Edge{From: b, To: a, Duration: d})
	return nil
}

// Finalize precomputes the stable neighbor tie-break ordering. Must be
// called once all vertices/edges are added and before the roadmap is used
// by a solver.
func (r *Roadmap) Finalize() {
	for v, es := range r.edges {
		order := make([]VertexID, len(es))
		for i, e := range es {
			order[i] = e.To
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
		r.neighborOrder[v] = order
	}
}

// Vertex returns the vertex with the given ID, or nil.
func (r *Roadmap) Vertex(id VertexID) *Vertex { return r.vertices[id] }

// HasVertex reports whether id is a known vertex.
func (r *Roadmap) HasVertex(id VertexID) bool {
	_, ok := r.vertices[id]
	return ok
}

// Neighbors returns the outgoing neighbors of v in the stable tie-break
// order computed by Finalize (§4.A).
func (r *Roadmap) Neighbors(v VertexID) []VertexID {
	return r.neighborOrder[v]
}

// VertexIDs returns every vertex id, sorted ascending. Used by callers
// that need to build a per-agent safe-interval table (§4.C) over the
// whole roadmap.
func (r *Roadmap) VertexIDs() []VertexID {
	out := make([]VertexID, 0, len(r.vertices))
	for id := range r.vertices {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Duration returns the traversal time of edge (a,b), or false if no such
// edge exists.
func (r *Roadmap) Duration(a, b VertexID) (float64, bool) {
	for _, e := range r.edges[a] {
		if e.To == b {
			return e.Duration, true
		}
	}
	return 0, false
}

// Validate checks the structural invariants of §3: every edge endpoint
// names a known vertex, and no two vertices share a position.
func (r *Roadmap) Validate() error {
	seen := make(map[geom.Point]VertexID, len(r.vertices))
	for id, v := range r.vertices {
		if other, dup := seen[v.Pos]; dup {
			return fmt.Errorf("roadmap: vertices %d and %d coincide at %v", other, id, v.Pos)
		}
		seen[v.Pos] = id
	}
	for from, es := range r.edges {
		for _, e := range es {
			if !r.HasVertex(e.From) || !r.HasVertex(e.To) {
				return fmt.Errorf("roadmap: edge (%d,%d) references an unknown vertex", e.From, e.To)
			}
			_ = from
		}
	}
	return nil
}

// buildGonumGraph builds a gonum weighted undirected graph view of the
// roadmap, used only to feed path.DijkstraFrom for the reverse-goal
// heuristic (§4.A). Grounded on the gonum-gonum retrieval's graph/simple
// and graph/path usage.
func (r *Roadmap) buildGonumGraph() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for id := range r.vertices {
		g.AddNode(simple.Node(int64(id)))
	}
	seen := make(map[[2]VertexID]bool)
	for from, es := range r.edges {
		for _, e := range es {
			key := [2]VertexID{e.From, e.To}
			rev := [2]VertexID{e.To, e.From}
			if seen[key] || seen[rev] {
				continue
			}
			seen[key] = true
			g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(int64(from)),
				T: simple.Node(int64(e.To)),
				W: e.Duration,
			})
		}
	}
	return g
}

// PrecomputeHeuristic runs a reverse Dijkstra from goal over the whole
// roadmap and caches the resulting shortest-path distances, so that
// Heuristic(v, goal) is O(1) thereafter (§4.A: "Optionally provides an
// admissible heuristic h*(v, goal) ... cached per-goal").
func (r *Roadmap) PrecomputeHeuristic(goal VertexID) {
	if _, done := r.heuristics[goal]; done {
		return
	}
	g := r.buildGonumGraph()
	shortest := path.DijkstraFrom(simple.Node(int64(goal)), g)

	table := make(map[VertexID]float64, len(r.vertices))
	for id := range r.vertices {
		_, weight := shortest.To(int64(id))
		table[id] = weight
	}
	r.heuristics[goal] = table
}

// Heuristic returns an admissible lower bound h*(v, goal) on the remaining
// travel time from v to goal. If the table for goal has not been
// precomputed, it falls back to the straight-line Euclidean distance,
// which is also admissible since every edge duration is at least the
// Euclidean length it represents (speed 1, triangle inequality).
func (r *Roadmap) Heuristic(v, goal VertexID) float64 {
	if table, ok := r.heuristics[goal]; ok {
		if d, ok := table[v]; ok {
			return d
		}
	}
	vv, gv := r.vertices[v], r.vertices[goal]
	if vv == nil || gv == nil {
		return 0
	}
	return geom.Dist(vv.Pos, gv.Pos)
}

// ensure the gonum graph.Graph interface is actually satisfied at compile
// time by the type we hand to path.DijkstraFrom (defensive — keeps this
// file self-checking if gonum's simple package shape ever narrows).
var _ graph.Weighted = (*simple.WeightedUndirectedGraph)(nil)
