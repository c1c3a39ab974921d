package sipp

import (
	"testing"
	"time"

	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/geom"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// line builds a simple 0-1-2-...-n roadmap along the X axis with unit
// spacing, mirroring the teacher's createGrid/createTestInstance helpers
// in internal/algo/solver_test.go.
func line(n int) *roadmap.Roadmap {
	rm := roadmap.New()
	for i := 0; i < n; i++ {
		rm.AddVertex(roadmap.Vertex{ID: roadmap.VertexID(i), Pos: geom.Point{X: float64(i), Y: 0}})
	}
	for i := 0; i < n-1; i++ {
		_ = rm.AddEdge(roadmap.VertexID(i), roadmap.VertexID(i+1))
	}
	rm.Finalize()
	rm.PrecomputeHeuristic(roadmap.VertexID(n - 1))
	return rm
}

func TestPlan_NoConstraints(t *testing.T) {
	rm := line(4)
	path, found, err := Plan(rm, instance.AgentID(1), 0, 3, constraint.Empty,
		[]roadmap.VertexID{0, 1, 2, 3}, 0, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a path on an unconstrained line")
	}
	if got, want := path.Duration(), 3.0; got != want {
		t.Fatalf("duration = %v, want %v", got, want)
	}
}

func TestPlan_VertexConstraintForcesWait(t *testing.T) {
	rm := line(3)
	cs := constraint.Empty.WithNegative(constraint.Negative{
		Agent: 1, From: 1, To: 1, Lo: 0, Hi: 1.5,
	})
	path, found, err := Plan(rm, instance.AgentID(1), 0, 2, cs,
		[]roadmap.VertexID{0, 1, 2}, 0, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a path that waits out the forbidden window")
	}
	if len(path) != 3 {
		t.Fatalf("expected a wait move plus two edge moves, got %d moves: %+v", len(path), path)
	}
	wait := path[0]
	if wait.From != 0 || wait.To != 0 || wait.Start != 0 || wait.End != 0.5 {
		t.Fatalf("expected a wait move [0,0.5) at vertex 0, got %+v", wait)
	}
	firstEdge := path[1]
	if firstEdge.From != 0 || firstEdge.To != 1 || firstEdge.Start != 0.5 || firstEdge.End != 1.5 {
		t.Fatalf("expected the edge move to depart at 0.5 and span exactly one unit, got %+v", firstEdge)
	}
	if path[2].Start < 1.5 {
		t.Fatalf("expected the final move to depart at/after 1.5, got %v", path[2].Start)
	}
}

func TestPlan_UnreachableVertexAtStart(t *testing.T) {
	rm := line(2)
	cs := constraint.Empty.WithNegative(constraint.Negative{
		Agent: 1, From: 0, To: 0, Lo: 0, Hi: 1,
	})
	_, found, err := Plan(rm, instance.AgentID(1), 0, 1, cs,
		[]roadmap.VertexID{0, 1}, 0, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected no path when the start vertex is forbidden at t=0")
	}
}

func TestPlan_PositiveConstraintMandatesDeparture(t *testing.T) {
	rm := roadmap.New()
	rm.AddVertex(roadmap.Vertex{ID: 0, Pos: geom.Point{X: 0, Y: 0}})
	rm.AddVertex(roadmap.Vertex{ID: 1, Pos: geom.Point{X: 1, Y: 0}})
	rm.AddVertex(roadmap.Vertex{ID: 2, Pos: geom.Point{X: 0, Y: 1}})
	_ = rm.AddEdge(0, 1)
	_ = rm.AddEdge(0, 2)
	rm.Finalize()
	rm.PrecomputeHeuristic(1)

	cs, err := constraint.Empty.WithPositive(constraint.Positive{
		Agent: 1, From: 0, To: 1, Start: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error building constraint set: %v", err)
	}

	path, found, planErr := Plan(rm, instance.AgentID(1), 0, 1, cs,
		[]roadmap.VertexID{0, 1, 2}, 0, time.Time{})
	if planErr != nil {
		t.Fatalf("unexpected error: %v", planErr)
	}
	if !found {
		t.Fatal("expected the mandated departure to produce a path")
	}
	if len(path) != 1 || path[0].To != 1 {
		t.Fatalf("expected a single forced move to vertex 1, got %v", path)
	}
}

func TestPlan_DeadlineExceeded(t *testing.T) {
	rm := line(3)
	_, _, err := Plan(rm, instance.AgentID(1), 0, 2, constraint.Empty,
		[]roadmap.VertexID{0, 1, 2}, 0, time.Now().Add(-time.Second))
	if err != ErrDeadlineExceeded {
		t.Fatalf("expected ErrDeadlineExceeded, got %v", err)
	}
}
