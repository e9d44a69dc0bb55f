package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	Tolerance = 1e-6
	// Epsilon is the relative slack used for orientation tests. Cross
	// products are compared against it times the squared size of the figure,
	// so the tests give the same answers at any map scale.
	Epsilon = 1e-9
	TAU     = 2 * math.Pi
)

// To compensate for imprecision in floats, equality is tolerance based.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle of the direction from one point to another, in (-π, π].
func Angle(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// NormalizeAngle brings an angle into [0, TAU).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TAU)
	if a < 0 {
		a += TAU
	}
	return a
}

// AngleCCWDiff is how far one must rotate counterclockwise from a1 to reach a2,
// in [0, TAU).
func AngleCCWDiff(a1, a2 float64) float64 {
	return NormalizeAngle(a2 - a1)
}

// AngleCWDiff is how far one must rotate clockwise from a1 to reach a2, in
// [0, TAU).
func AngleCWDiff(a1, a2 float64) float64 {
	return NormalizeAngle(a1 - a2)
}

// Cross product of (b - a) and (c - a). Positive when a, b, c turn
// counterclockwise.
func Orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ScaledEpsilon is Epsilon scaled by the longest squared distance between any
// two of the points.
func ScaledEpsilon(points ...Point) float64 {
	var longest float64
	for i, p := range points {
		for _, q := range points[i+1:] {
			d := q.Sub(p)
			longest = math.Max(longest, d.X*d.X+d.Y*d.Y)
		}
	}
	return Epsilon * longest
}

// IsLeftTurn tells whether a→b→c turns counterclockwise by more than the
// tolerance. Straight and nearly straight runs are not left turns.
func IsLeftTurn(a, b, c Point) bool {
	return Orient(a, b, c) > ScaledEpsilon(a, b, c)
}

func sign(v, epsilon float64) int {
	if v > epsilon {
		return 1
	}
	if v < -epsilon {
		return -1
	}
	return 0
}

// IsPointInTriangle uses the sign method. With onEdge set, a point lying on an
// edge or corner counts as inside. A degenerate triangle, whose corners are on
// one line, contains nothing.
func IsPointInTriangle(p, a, b, c Point, onEdge bool) bool {
	epsilon := ScaledEpsilon(a, b, c)
	if math.Abs(Orient(a, b, c)) <= epsilon {
		return false
	}
	d1 := sign(Orient(a, b, p), epsilon)
	d2 := sign(Orient(b, c, p), epsilon)
	d3 := sign(Orient(c, a, p), epsilon)

	if onEdge {
		hasNeg := d1 < 0 || d2 < 0 || d3 < 0
		hasPos := d1 > 0 || d2 > 0 || d3 > 0
		return !(hasNeg && hasPos)
	}
	return (d1 > 0 && d2 > 0 && d3 > 0) || (d1 < 0 && d2 < 0 && d3 < 0)
}

// Shoelace formula. Positive for counterclockwise winding.
func SignedArea(points []Point) float64 {
	var sum float64
	for i, p := range points {
		next := points[CircularIndex(i+1, len(points))]
		sum += p.X*next.Y - next.X*p.Y
	}
	return sum / 2
}

func TriangleSignedArea(a, b, c Point) float64 {
	return Orient(a, b, c) / 2
}

// Rightmost reports whether a is further right than b. Ties on x go to the
// point with the lower y.
func Rightmost(a, b Point) bool {
	if a.X != b.X {
		return a.X > b.X
	}
	return a.Y < b.Y
}

// SegmentIntersection intersects segment p1-p2 with segment q1-q2. It returns
// the parameters along each segment (0 at the start, 1 at the end). Parallel
// segments never intersect.
func SegmentIntersection(p1, p2, q1, q2 Point) (tp, tq float64, ok bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.X*s.Y - r.Y*s.X
	if math.Abs(denom) <= Epsilon*math.Sqrt((r.X*r.X+r.Y*r.Y)*(s.X*s.X+s.Y*s.Y)) {
		return 0, 0, false
	}
	qp := q1.Sub(p1)
	tp = (qp.X*s.Y - qp.Y*s.X) / denom
	tq = (qp.X*r.Y - qp.Y*r.X) / denom
	if tp < -Epsilon || tp > 1+Epsilon || tq < -Epsilon || tq > 1+Epsilon {
		return tp, tq, false
	}
	return tp, tq, true
}

// ClosestPointOnSegment projects p onto the segment, clamped to its ends.
func ClosestPointOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	lengthSquared := ab.X*ab.X + ab.Y*ab.Y
	if lengthSquared == 0 {
		return a
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lengthSquared
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

func IsPointOnSegment(p, a, b Point) bool {
	return Distance(p, ClosestPointOnSegment(p, a, b)) < Tolerance
}

// Bounds of a set of points. An empty set gives an empty rect.
func Bounds(points ...Point) r2.Rect {
	rect := r2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(p.R2())
	}
	return rect
}

// RectArea is zero for empty rects.
func RectArea(rect r2.Rect) float64 {
	if rect.IsEmpty() {
		return 0
	}
	size := rect.Size()
	return size.X * size.Y
}

// ContainsPointByEvenOdd is the crossing-count point-in-polygon test. Points on
// the boundary give an unspecified answer; check IsPointOnSegment first if that
// matters.
func ContainsPointByEvenOdd(points []Point, p Point) bool {
	return CrossingCount(points, p)%2 == 1
}

// Crossing count helper for even odd rule. Counts edges that cross the
// horizontal ray toward +x.
func CrossingCount(points []Point, p Point) int {
	crossingCount := 0
	for i, vertex := range points {
		nextVertex := points[CircularIndex(i+1, len(points))]
		if (vertex.Y > p.Y) == (nextVertex.Y > p.Y) {
			continue
		}
		x := vertex.X + (p.Y-vertex.Y)*(nextVertex.X-vertex.X)/(nextVertex.Y-vertex.Y)
		if x > p.X {
			crossingCount++
		}
	}
	return crossingCount
}

// IsPointOnBoundary checks every edge of a closed ring.
func IsPointOnBoundary(points []Point, p Point) bool {
	for i, vertex := range points {
		if IsPointOnSegment(p, vertex, points[CircularIndex(i+1, len(points))]) {
			return true
		}
	}
	return false
}
