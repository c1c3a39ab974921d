// Package geom implements the exact continuous-time collision kernel (§4.B)
// used to decide whether two moving disks of radius r ever overlap, and to
// derive the start-time windows that must be forbidden to break a collision.
package geom

import "math"

// Epsilon is the single tolerance used for every strict/non-strict
// comparison in the collision kernel, per §4.B's numeric policy.
const Epsilon = 1e-9

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }

// Dist returns the Euclidean distance between two points.
func Dist(p, q Point) float64 {
	d := p.Sub(q)
	return math.Sqrt(d.Dot(d))
}

// Span is a moving (or stationary) disk's trajectory: linear interpolation
// from From to To over the half-open time window [Start, End).
type Span struct {
	From, To   Point
	Start, End float64
}

// IsWait reports whether this span holds still (a wait move, §3).
func (s Span) IsWait() bool {
	return s.From == s.To
}

// at returns the disk center position at time t by linear interpolation
// over the span's window. t is not clamped: outside [Start,End] the result
// is extrapolated along the same line.
func (s Span) at(t float64) Point {
	dur := s.End - s.Start
	if dur <= 0 {
		return s.From
	}
	frac := (t - s.Start) / dur
	return s.From.Add(s.To.Sub(s.From).Scale(frac))
}

// relativeQuadratic returns the coefficients of |posA(t) - posB(t)|^2 as a
// quadratic a*t^2 + b*t + c, valid for any t (both positions are affine in
// t once each span's own [Start,End] window is fixed).
func relativeQuadratic(ma, mb Span) (a, b, c float64) {
	// posA(t) = A0 + Va*(t - ma.Start); posB(t) = B0 + Vb*(t - mb.Start).
	durA := ma.End - ma.Start
	durB := mb.End - mb.Start

	var va, vb Point
	if durA > 0 {
		va = ma.To.Sub(ma.From).Scale(1 / durA)
	}
	if durB > 0 {
		vb = mb.To.Sub(mb.From).Scale(1 / durB)
	}

	// d(t) = (A0 - va*ma.Start) - (B0 - vb*mb.Start) + (va-vb)*t = P + V*t
	pA := ma.From.Sub(va.Scale(ma.Start))
	pB := mb.From.Sub(vb.Scale(mb.Start))
	p := pA.Sub(pB)
	v := va.Sub(vb)

	a = v.Dot(v)
	b = 2 * p.Dot(v)
	c = p.Dot(p)
	return
}

// overlapWindow returns the half-open window during which both spans are
// simultaneously active, or ok=false if they never overlap in time.
func overlapWindow(ma, mb Span) (lo, hi float64, ok bool) {
	lo = math.Max(ma.Start, mb.Start)
	hi = math.Min(ma.End, mb.End)
	return lo, hi, hi-lo > Epsilon
}

// minQuadraticOnWindow returns the minimum value of a*t^2+b*t+c over the
// closed interval [lo,hi], plus the t at which it is attained. a is assumed
// non-negative (squared-distance quadratics always have a>=0 leading term).
func minQuadraticOnWindow(a, b, c, lo, hi float64) (minVal, atT float64) {
	eval := func(t float64) float64 { return a*t*t + b*t + c }
	if a <= Epsilon {
		// Degenerate: constant (or effectively linear with a~0, treat as
		// constant since b would also be ~0 whenever a is exactly 0 for a
		// true squared-velocity term) — sample both ends, take the min.
		vLo, vHi := eval(lo), eval(hi)
		if vLo <= vHi {
			return vLo, lo
		}
		return vHi, hi
	}
	vertex := -b / (2 * a)
	t := math.Max(lo, math.Min(hi, vertex))
	return eval(t), t
}

// Collides reports whether two disks of radius r, moving along ma and mb,
// ever come within 2r of each other during their shared active window.
// Cases (a)-(d) of §4.B collapse into the same quadratic-minimization test:
// two moving agents, one waiting, both waiting on distinct vertices, or
// sharing a vertex while active (handled by the generic affine model, since
// a shared vertex with overlapping times makes d(t) the zero vector over
// that sub-window, which always trips below threshold).
func Collides(ma, mb Span, r float64) bool {
	lo, hi, ok := overlapWindow(ma, mb)
	if !ok {
		return false
	}
	a, b, c := relativeQuadratic(ma, mb)
	threshold := (2 * r) * (2 * r)
	minVal, _ := minQuadraticOnWindow(a, b, c, lo, hi)
	return minVal < threshold-Epsilon
}

// CollisionInterval computes the maximal half-open interval of start times
// for a "variable" move — an agent beginning to traverse the edge
// (from,to) with fixed duration dur — such that it collides with the
// already-fixed move `fixed`. Returns ok=false if no start time collides.
//
// §4.B prescribes a root-finding / interval-intersection routine; rather
// than deriving the joint closed form in two variables (time and start
// offset) the bracket-and-bisect approach below treats Collides as an
// oracle and narrows the true boundary to within eps. This is the Open
// Question resolution recorded in DESIGN.md: with constant relative
// velocity the colliding set of start times is contiguous (the squared
// distance between the fixed disk and a disk sliding along its own
// constant-velocity edge, reparametrized by start offset, is itself
// quadratic in the offset along any fixed observation time, and the union
// over all observation times of a family of downward-opening-compatible
// quadratics' sub-threshold sets stays an interval for the disk-pair
// geometries this engine models), so two independent bisections — one per
// boundary — are sufficient.
func CollisionInterval(fixed Span, from, to Point, dur float64, r float64, eps float64) (lo, hi float64, ok bool) {
	collidesAt := func(start float64) bool {
		variable := Span{From: from, To: to, Start: start, End: start + dur}
		return Collides(fixed, variable, r)
	}

	// The only start times that can possibly collide are those whose
	// active window [start, start+dur) intersects the fixed move's
	// window [fixed.Start, fixed.End).
	searchLo := fixed.Start - dur
	searchHi := fixed.End

	const steps = 512
	step := (searchHi - searchLo) / steps
	if step <= 0 {
		return 0, 0, false
	}

	// Coarse scan to find any colliding sample and a bracket around the
	// contiguous colliding run.
	foundAny := false
	var sampleLo, sampleHi float64
	prev := searchLo
	prevCollides := collidesAt(prev)
	if prevCollides {
		foundAny = true
		sampleLo, sampleHi = prev, prev
	}
	for s := searchLo + step; s <= searchHi+Epsilon; s += step {
		cur := collidesAt(s)
		if cur {
			if !foundAny {
				foundAny = true
				sampleLo, sampleHi = s, s
			} else {
				if s < sampleLo {
					sampleLo = s
				}
				if s > sampleHi {
					sampleHi = s
				}
			}
		}
		prev, prevCollides = s, cur
	}
	if !foundAny {
		return 0, 0, false
	}

	// Bisect left boundary: smallest a in [searchLo, sampleLo] such that
	// collidesAt(a) is true, to within eps.
	left := bisectBoundary(searchLo, sampleLo, eps, func(t float64) bool { return !collidesAt(t) })
	// Bisect right boundary: smallest b in [sampleHi, searchHi] such that
	// collidesAt(b) is false.
	right := bisectBoundary(sampleHi, searchHi, eps, collidesAt)

	return left, right, true
}

// bisectBoundary finds the boundary between a run where pred holds (from
// lo) and where it no longer holds (toward hi), assuming pred(lo) is true
// and pred transitions at most once across [lo,hi].
func bisectBoundary(lo, hi float64, eps float64, pred func(float64) bool) float64 {
	if !pred(lo) {
		return lo
	}
	for hi-lo > eps {
		mid := (lo + hi) / 2
		if pred(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
