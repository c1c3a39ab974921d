package interval

import (
	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// Table is the per-agent safe-interval table (§4.C): a vertex's safe
// intervals (derived from wait-forbidding constraints, From==To) and a
// directed edge's allowed start intervals (derived from move-forbidding
// constraints, From!=To).
type Table struct {
	vertex map[roadmap.VertexID]Set
	edge   map[edgeKey]Set
}

type edgeKey struct {
	From, To roadmap.VertexID
}

// Build constructs the safe-interval table for one agent from the
// constraint set inherited along its HLN's constraint-tree path (§4.C).
// vertices lists every roadmap vertex so that unconstrained vertices
// still get a full-range safe interval.
func Build(cs constraint.Set, agent instance.AgentID, vertices []roadmap.VertexID) *Table {
	t := &Table{
		vertex: make(map[roadmap.VertexID]Set),
		edge:   make(map[edgeKey]Set),
	}

	occupiedAtVertex := make(map[roadmap.VertexID][]Span)
	forbiddenOnEdge := make(map[edgeKey][]Span)

	for _, n := range cs.Negatives(agent) {
		if n.From == n.To {
			occupiedAtVertex[n.From] = append(occupiedAtVertex[n.From], Span{Lo: n.Lo, Hi: n.Hi})
		} else {
			k := edgeKey{From: n.From, To: n.To}
			forbiddenOnEdge[k] = append(forbiddenOnEdge[k], Span{Lo: n.Lo, Hi: n.Hi})
		}
	}

	for _, v := range vertices {
		t.vertex[v] = Subtract(Full(), Union(occupiedAtVertex[v]))
	}
	for k, spans := range forbiddenOnEdge {
		t.edge[k] = Subtract(Full(), Union(spans))
	}

	return t
}

// VertexSafe returns the safe-interval Set at vertex v.
func (t *Table) VertexSafe(v roadmap.VertexID) Set {
	if s, ok := t.vertex[v]; ok {
		return s
	}
	return Full()
}

// EdgeAllowedStart returns the allowed start-time Set for beginning to
// traverse directed edge (from,to).
func (t *Table) EdgeAllowedStart(from, to roadmap.VertexID) Set {
	if s, ok := t.edge[edgeKey{From: from, To: to}]; ok {
		return s
	}
	return Full()
}
