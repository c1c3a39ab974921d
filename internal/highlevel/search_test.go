package highlevel

import (
	"math"
	"testing"
	"time"

	"github.com/elektrokombinacija/ccbs/internal/geom"
	"github.com/elektrokombinacija/ccbs/internal/hvalue"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

func baseOpts(r float64) Options {
	return Options{Radius: r, Precision: 1e-6, TimeLimit: 5 * time.Second, HLHType: hvalue.TypeNone}
}

func twoVertexLine() *roadmap.Roadmap {
	rm := roadmap.New()
	rm.AddVertex(roadmap.Vertex{ID: 0, Pos: geom.Point{X: 0, Y: 0}})
	rm.AddVertex(roadmap.Vertex{ID: 1, Pos: geom.Point{X: 1, Y: 0}})
	_ = rm.AddEdge(0, 1)
	rm.Finalize()
	rm.PrecomputeHeuristic(0)
	rm.PrecomputeHeuristic(1)
	return rm
}

func threeVertexLine() *roadmap.Roadmap {
	rm := roadmap.New()
	for i := 0; i < 3; i++ {
		rm.AddVertex(roadmap.Vertex{ID: roadmap.VertexID(i), Pos: geom.Point{X: float64(i), Y: 0}})
	}
	_ = rm.AddEdge(0, 1)
	_ = rm.AddEdge(1, 2)
	rm.Finalize()
	rm.PrecomputeHeuristic(0)
	rm.PrecomputeHeuristic(2)
	return rm
}

func unitSquare() *roadmap.Roadmap {
	rm := roadmap.New()
	rm.AddVertex(roadmap.Vertex{ID: 0, Pos: geom.Point{X: 0, Y: 0}})
	rm.AddVertex(roadmap.Vertex{ID: 1, Pos: geom.Point{X: 1, Y: 0}})
	rm.AddVertex(roadmap.Vertex{ID: 2, Pos: geom.Point{X: 1, Y: 1}})
	rm.AddVertex(roadmap.Vertex{ID: 3, Pos: geom.Point{X: 0, Y: 1}})
	_ = rm.AddEdge(0, 1)
	_ = rm.AddEdge(1, 2)
	_ = rm.AddEdge(2, 3)
	_ = rm.AddEdge(3, 0)
	rm.Finalize()
	for i := 0; i < 4; i++ {
		rm.PrecomputeHeuristic(roadmap.VertexID(i))
	}
	return rm
}

// S1: two vertices, agents swap across the single edge — cardinal conflict,
// one agent must wait.
func TestSearch_S1_SingleEdgeSwap(t *testing.T) {
	rm := twoVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.4,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 1}, {ID: 2, Start: 1, Goal: 0}},
	}
	res, err := Search(inst, baseOpts(0.4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a solution, reason=%v", res.Reason)
	}
	if res.Flowtime <= 2.0 {
		t.Fatalf("expected a wait to push flowtime above 2.0, got %v", res.Flowtime)
	}
}

// S2: 3-vertex line, agents swap end to end through the middle vertex.
func TestSearch_S2_ThreeVertexSwap(t *testing.T) {
	rm := threeVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.3,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 2}, {ID: 2, Start: 2, Goal: 0}},
	}
	res, err := Search(inst, baseOpts(0.3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a solution, reason=%v", res.Reason)
	}
	if res.Flowtime <= 4.0 {
		t.Fatalf("expected flowtime above the conflict-free 2+2, got %v", res.Flowtime)
	}
}

// S3: unit square, diagonal-ish crossing paths that never collide.
func TestSearch_S3_SquareNoConflict(t *testing.T) {
	rm := unitSquare()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.2,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 2}, {ID: 2, Start: 1, Goal: 3}},
	}
	res, err := Search(inst, baseOpts(0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a solution, reason=%v", res.Reason)
	}
	want := 2 + math.Sqrt(2)
	if math.Abs(res.Flowtime-want) > 1e-6 {
		t.Fatalf("expected flowtime %v, got %v", want, res.Flowtime)
	}
	if res.HighLevelExpanded != 1 {
		t.Fatalf("expected a single high-level expansion for a conflict-free instance, got %d", res.HighLevelExpanded)
	}
}

// S4: coincident starts is rejected before any search runs.
func TestSearch_S4_CoincidentStartsInvalid(t *testing.T) {
	rm := twoVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.3,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 1}, {ID: 2, Start: 0, Goal: 1}},
	}
	_, err := Search(inst, baseOpts(0.3))
	if err == nil {
		t.Fatal("expected InvalidInput for coincident starts")
	}
}

func TestSearch_SingleAgent_ShortestPath(t *testing.T) {
	rm := threeVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.3,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 2}},
	}
	res, err := Search(inst, baseOpts(0.3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found || res.Flowtime != 2.0 || res.HighLevelExpanded != 1 {
		t.Fatalf("expected a trivial single-agent solution, got %+v", res)
	}
}

func TestSearch_DisjointSplitting_PreservesFlowtime(t *testing.T) {
	rm := twoVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.4,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 1}, {ID: 2, Start: 1, Goal: 0}},
	}

	plain := baseOpts(0.4)
	resPlain, err := Search(inst, plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	disjoint := baseOpts(0.4)
	disjoint.UseDisjointSplitting = true
	resDisjoint, err := Search(inst, disjoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resPlain.Found || !resDisjoint.Found {
		t.Fatalf("expected both variants to find a solution: plain=%v disjoint=%v", resPlain.Found, resDisjoint.Found)
	}
	if math.Abs(resPlain.Flowtime-resDisjoint.Flowtime) > 1e-6 {
		t.Fatalf("expected identical flowtime, got plain=%v disjoint=%v", resPlain.Flowtime, resDisjoint.Flowtime)
	}
}

func TestSearch_CardinalAndHValue_StillOptimal(t *testing.T) {
	rm := twoVertexLine()
	inst := &instance.Instance{
		Roadmap: rm, Radius: 0.4,
		Agents: []instance.Agent{{ID: 1, Start: 0, Goal: 1}, {ID: 2, Start: 1, Goal: 0}},
	}
	opts := baseOpts(0.4)
	opts.UseCardinal = true
	opts.HLHType = hvalue.TypeGreedy
	res, err := Search(inst, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a solution, reason=%v", res.Reason)
	}
}
