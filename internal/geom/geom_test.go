package geom

import "testing"

func TestCollides_HeadOnSwap(t *testing.T) {
	// Two agents traverse the same unit edge in opposite directions over
	// the same window: they must pass through each other's disk.
	a := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}
	b := Span{From: Point{1, 0}, To: Point{0, 0}, Start: 0, End: 1}

	if !Collides(a, b, 0.4) {
		t.Fatal("expected a head-on swap on the same edge to collide")
	}
}

func TestCollides_DisjointEdges(t *testing.T) {
	a := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}
	b := Span{From: Point{0, 10}, To: Point{1, 10}, Start: 0, End: 1}

	if Collides(a, b, 0.4) {
		t.Fatal("expected far-apart parallel edges not to collide")
	}
}

func TestCollides_NoTimeOverlap(t *testing.T) {
	a := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}
	b := Span{From: Point{1, 0}, To: Point{0, 0}, Start: 1, End: 2}

	if Collides(a, b, 0.4) {
		t.Fatal("moves with no overlapping time window cannot collide")
	}
}

func TestCollides_WaitVsMoving(t *testing.T) {
	// b waits at (0.5, 0) while a passes straight through it.
	a := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}
	b := Span{From: Point{0.5, 0}, To: Point{0.5, 0}, Start: 0, End: 1}

	if !Collides(a, b, 0.1) {
		t.Fatal("expected the moving disk to clip the waiting disk")
	}
}

func TestCollides_BothWaitingDistinctVertices(t *testing.T) {
	a := Span{From: Point{0, 0}, To: Point{0, 0}, Start: 0, End: 5}
	b := Span{From: Point{5, 5}, To: Point{5, 5}, Start: 0, End: 5}

	if Collides(a, b, 0.4) {
		t.Fatal("far-apart stationary disks must not collide")
	}
}

func TestCollides_SharedVertexOverlappingTime(t *testing.T) {
	a := Span{From: Point{0, 0}, To: Point{0, 0}, Start: 0, End: 5}
	b := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 2, End: 3}

	if !Collides(a, b, 0.2) {
		t.Fatal("sharing a vertex during overlapping time is always a collision")
	}
}

func TestCollisionInterval_RoundTrip(t *testing.T) {
	// Fixed move: an agent traverses (0,0)->(1,0) over [0,1).
	fixed := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}

	lo, hi, ok := CollisionInterval(fixed, Point{1, 0}, Point{0, 0}, 1.0, 0.4, 1e-6)
	if !ok {
		t.Fatal("expected a non-empty collision interval for the swap geometry")
	}
	if lo >= hi {
		t.Fatalf("expected lo < hi, got [%v, %v)", lo, hi)
	}

	// Round-trip: a start time strictly inside the interval must collide;
	// applying the derived negative constraint and replanning outside of
	// it must not.
	mid := (lo + hi) / 2
	variable := Span{From: Point{1, 0}, To: Point{0, 0}, Start: mid, End: mid + 1.0}
	if !Collides(fixed, variable, 0.4) {
		t.Fatalf("midpoint of reported collision interval %v did not collide", mid)
	}

	outside := hi + 0.5
	variable2 := Span{From: Point{1, 0}, To: Point{0, 0}, Start: outside, End: outside + 1.0}
	if Collides(fixed, variable2, 0.4) {
		t.Fatalf("start time %v outside reported interval still collided", outside)
	}
}

func TestCollisionInterval_NoCollisionPossible(t *testing.T) {
	fixed := Span{From: Point{0, 0}, To: Point{1, 0}, Start: 0, End: 1}
	_, _, ok := CollisionInterval(fixed, Point{100, 100}, Point{101, 100}, 1.0, 0.4, 1e-6)
	if ok {
		t.Fatal("expected no collision interval for a far-away edge")
	}
}
