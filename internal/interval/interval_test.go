package interval

import (
	"math"
	"testing"
)

func TestSubtractMiddle(t *testing.T) {
	base := Full()
	got := Subtract(base, Union([]Span{{Lo: 2, Hi: 4}}))

	want := Set{{Lo: 0, Hi: 2}, {Lo: 4, Hi: math.Inf(1)}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSubtractMultipleOverlapping(t *testing.T) {
	base := Full()
	occupied := Union([]Span{{Lo: 1, Hi: 2}, {Lo: 1.5, Hi: 3}, {Lo: 5, Hi: 6}})
	got := Subtract(base, occupied)

	want := Set{{Lo: 0, Hi: 1}, {Lo: 3, Hi: 5}, {Lo: 6, Hi: math.Inf(1)}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestExtendsToInfinity(t *testing.T) {
	set := Subtract(Full(), Union([]Span{{Lo: 2, Hi: 4}}))
	idx := set.IndexContaining(10)
	if idx < 0 || !set.Extends(idx) {
		t.Fatal("expected the interval at t=10 to extend to +Inf")
	}
	idx0 := set.IndexContaining(0)
	if idx0 < 0 || set.Extends(idx0) {
		t.Fatal("expected the interval at t=0 not to extend to +Inf")
	}
}

func TestUnionMergesOverlapping(t *testing.T) {
	got := Union([]Span{{Lo: 0, Hi: 2}, {Lo: 1, Hi: 3}})
	if len(got) != 1 || got[0] != (Span{Lo: 0, Hi: 3}) {
		t.Fatalf("expected merged [0,3), got %v", got)
	}
}
