package internal

import (
	"math"

	"github.com/osuushi/areamesh/geometry"
)

const (
	// Per-axis distance under which two consecutive vertices are the same.
	cleanDistance = 1e-5
	// Angle difference under which three consecutive vertices are a straight
	// line.
	cleanAngle = 1e-6
)

// Clean removes vertices that add nothing to the shape: ones sitting on the
// previous vertex, and ones in the middle of a straight run. After a removal
// the same index is checked again, since its neighbors changed.
func (poly *Polygon) Clean() {
	points := poly.Points
	for i := 0; i < len(points); {
		n := len(points)
		prev := points[geometry.CircularIndex(i-1, n)]
		cur := points[i]
		next := points[geometry.CircularIndex(i+1, n)]

		remove := math.Abs(prev.X-cur.X) < cleanDistance && math.Abs(prev.Y-cur.Y) < cleanDistance
		if !remove && n > 1 {
			diff := geometry.AngleCCWDiff(geometry.Angle(prev.Point, cur.Point), geometry.Angle(cur.Point, next.Point))
			remove = diff < cleanAngle || diff > geometry.TAU-cleanAngle
		}

		if remove {
			points = append(points[:i], points[i+1:]...)
		} else {
			i++
		}
	}
	poly.Points = points
}

// RightmostIndex gives the index of the vertex with the greatest x. Ties go to
// the lower y, then the lower vertex handle.
func (poly Polygon) RightmostIndex() int {
	best := -1
	for i, p := range poly.Points {
		if best < 0 || isMoreRight(p, poly.Points[best]) {
			best = i
		}
	}
	return best
}

func isMoreRight(p, other *Point) bool {
	if p.Point == other.Point {
		return p.ID < other.ID
	}
	return geometry.Rightmost(p.Point, other.Point)
}

func (poly Polygon) XY() []geometry.Point {
	result := make([]geometry.Point, len(poly.Points))
	for i, p := range poly.Points {
		result[i] = p.Point
	}
	return result
}

func (poly Polygon) SignedArea() float64 {
	return geometry.SignedArea(poly.XY())
}

func (poly Polygon) IsCCW() bool {
	return poly.SignedArea() > 0
}

func (poly Polygon) IsCW() bool {
	return poly.SignedArea() < 0
}

func (poly Polygon) Reverse() Polygon {
	newPoly := Polygon{}
	for i := len(poly.Points) - 1; i >= 0; i-- {
		newPoly.Points = append(newPoly.Points, poly.Points[i])
	}
	return newPoly
}

func (poly Polygon) ContainsPointByEvenOdd(p geometry.Point) bool {
	return geometry.ContainsPointByEvenOdd(poly.XY(), p)
}

// Even-odd over the whole list, so holes listed after their outer polygon cut
// it out.
func (list PolygonList) ContainsPointByEvenOdd(p geometry.Point) bool {
	crossings := 0
	for _, poly := range list {
		crossings += geometry.CrossingCount(poly.XY(), p)
	}
	return crossings%2 == 1
}
